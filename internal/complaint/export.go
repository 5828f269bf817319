package complaint

import (
	"encoding/csv"
	"errors"
	"io"
	"log"

	"civiport/backend/internal/storage"
)

// ExportCSV writes the complaints matching the filter as CSV, one row per
// complaint, with the filer's name and phone resolved from storage. A
// complaint whose owner record is missing still exports, with blanks.
func (s *Service) ExportCSV(w io.Writer, filter storage.ComplaintFilter) error {
	complaints, err := s.Storage.ListAllComplaints(filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "User Name", "Phone", "Category", "Subcategory", "Status", "Date"}); err != nil {
		return err
	}

	for i := range complaints {
		c := &complaints[i]

		name, phone := "", ""
		owner, err := s.Storage.GetUserByID(c.OwnerID)
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			// Exported with blanks; the complaint itself is still useful.
		case err != nil:
			return err
		default:
			name = owner.FirstName + " " + owner.LastName
			phone = owner.Phone
		}

		row := []string{
			c.ID,
			name,
			phone,
			c.Category,
			c.Subcategory,
			string(c.Status),
			c.CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("ERROR: CSV export failed: %v", err)
		return err
	}
	return nil
}
