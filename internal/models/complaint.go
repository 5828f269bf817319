package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.StringArray
	"gorm.io/gorm"

	"civiport/backend/internal/status"
)

// Complaint is a citizen-filed issue record with a mutable status.
// OwnerID determines which realtime group a status change event is
// routed to.
type Complaint struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	OwnerID     string         `gorm:"index;not null" json:"ownerId"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory"`
	Description string         `gorm:"type:text" json:"description"`
	FileURL     string         `json:"fileUrl,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	Status      status.Status  `gorm:"type:text;not null" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BeforeCreate generates the complaint ID and pins the initial status.
// A complaint never exists without a progression value.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = status.Pending
	}
	return
}
