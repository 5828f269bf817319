// Package complaint provides the core logic of the portal: filing
// complaints, listing them, and updating their status with a realtime
// push to the owning citizen.
package complaint

import (
	"errors"
	"fmt"
	"log"

	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
	"civiport/backend/internal/storage"
)

// ErrInvalidStatus rejects an update whose status is not one of the
// enumerated progression values.
var ErrInvalidStatus = errors.New("invalid complaint status")

// ErrNotFound rejects an update for a complaint ID that does not exist.
var ErrNotFound = errors.New("complaint not found")

// Broadcaster is the slice of the event hub the service needs: a
// fire-and-forget fan-out to the owner's registered connections.
type Broadcaster interface {
	Broadcast(evt models.StatusChangeEvent)
}

// Notifier posts operational notices (new complaint, completion) to a
// staff channel. Implementations must never block or fail the caller.
type Notifier interface {
	ComplaintFiled(c *models.Complaint)
	ComplaintCompleted(c *models.Complaint)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Hub      Broadcaster
	Notifier Notifier
}

// NewService creates a new complaint service. notifier may be nil.
func NewService(s storage.Storage, hub Broadcaster, notifier Notifier) *Service {
	return &Service{Storage: s, Hub: hub, Notifier: notifier}
}

// File records a new complaint for a citizen. The BeforeCreate hook
// assigns the ID and the initial Pending status.
func (s *Service) File(c *models.Complaint) error {
	if err := s.Storage.SaveComplaint(c); err != nil {
		return err
	}

	if err := s.Storage.IncrDailyActivity("complaints_filed"); err != nil {
		log.Printf("WARNING: failed to record filing activity: %v", err)
	}
	if s.Notifier != nil {
		s.Notifier.ComplaintFiled(c)
	}
	return nil
}

// ListByOwner returns the citizen's complaints, most recent first.
func (s *Service) ListByOwner(ownerID string) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsByOwner(ownerID)
}

// ListAll returns complaints matching the filter, for the admin console.
func (s *Service) ListAll(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	return s.Storage.ListAllComplaints(filter)
}

// UpdateStatus validates the transition request, persists it, and pushes a
// change event to the owner's connections.
//
// Persistence is the source of truth: the broadcast is a best-effort
// convenience and can never fail the update. No ordering constraint is
// enforced between statuses, an administrator may move a case backward to
// reopen it.
func (s *Service) UpdateStatus(complaintID string, newStatus status.Status) (*models.Complaint, error) {
	if !status.IsValid(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	updated, err := s.Storage.UpdateComplaintStatus(complaintID, newStatus)
	if errors.Is(err, storage.ErrComplaintNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, complaintID)
	}
	if err != nil {
		return nil, err
	}

	s.Hub.Broadcast(models.StatusChangeEvent{
		ComplaintID: updated.ID,
		OwnerID:     updated.OwnerID,
		NewStatus:   updated.Status,
		Complaint:   updated,
	})

	if err := s.Storage.IncrDailyActivity("status_updates"); err != nil {
		log.Printf("WARNING: failed to record update activity: %v", err)
	}
	if s.Notifier != nil && updated.Status == status.Completed {
		s.Notifier.ComplaintCompleted(updated)
	}

	return updated, nil
}
