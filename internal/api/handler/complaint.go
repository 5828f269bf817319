package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"civiport/backend/internal/complaint"
	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
	"civiport/backend/internal/storage"
)

type fileComplaintRequest struct {
	Category    string   `json:"category" binding:"required"`
	Subcategory string   `json:"subcategory"`
	Description string   `json:"description" binding:"required"`
	FileURL     string   `json:"fileUrl"`
	Tags        []string `json:"tags"`
}

type updateStatusRequest struct {
	Status status.Status `json:"status" binding:"required"`
}

// FileComplaint records a new complaint for the authenticated citizen.
func (h *Handler) FileComplaint(c *gin.Context) {
	var req fileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := &models.Complaint{
		OwnerID:     c.GetString("userID"),
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		FileURL:     req.FileURL,
		Tags:        pq.StringArray(req.Tags),
	}
	if err := h.Complaints.File(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file complaint"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListUserComplaints returns a citizen's complaints, most recent first.
// A citizen may only read their own list; admins may read anyone's.
func (h *Handler) ListUserComplaints(c *gin.Context) {
	ownerID := c.Param("id")
	if ownerID != c.GetString("userID") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot read another citizen's complaints"})
		return
	}

	complaints, err := h.Complaints.ListByOwner(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// ListAllComplaints returns every complaint, optionally narrowed by
// ?status= and ?category=. Admin only.
func (h *Handler) ListAllComplaints(c *gin.Context) {
	filter := storage.ComplaintFilter{
		Status:   status.Status(c.Query("status")),
		Category: c.Query("category"),
	}
	complaints, err := h.Complaints.ListAll(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// UpdateComplaintStatus applies a status change and returns the updated
// record. The realtime push to the owner is handled inside the service
// and never affects this response.
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Complaints.UpdateStatus(c.Param("id"), req.Status)
	switch {
	case errors.Is(err, complaint.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, complaint.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

// ExportComplaintsCSV streams the filtered complaint list as a CSV
// download. Admin only.
func (h *Handler) ExportComplaintsCSV(c *gin.Context) {
	filter := storage.ComplaintFilter{
		Status:   status.Status(c.Query("status")),
		Category: c.Query("category"),
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="complaints-`+time.Now().Format("2006-01-02")+`.csv"`)
	if err := h.Complaints.ExportCSV(c.Writer, filter); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// DailyActivity returns the last seven days of a metric counter for the
// admin dashboard.
func (h *Handler) DailyActivity(c *gin.Context) {
	metric := c.Param("metric")
	type dayCount struct {
		Day   string `json:"day"`
		Count int64  `json:"count"`
	}

	out := make([]dayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		count, err := h.Storage.GetDailyActivity(metric, day)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
			return
		}
		out = append(out, dayCount{Day: day.Format("2006-01-02"), Count: count})
	}
	c.JSON(http.StatusOK, out)
}
