// Package console holds the admin-side state for the complaints table: it
// applies optimistic status edits, reconciles them against the server's
// confirmed record, and rolls back deterministically when an update is
// rejected.
package console

import (
	"log"
	"sync"

	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
)

// Updater is the request contract of the status update service, as seen
// from the admin console.
type Updater interface {
	UpdateStatus(complaintID string, newStatus status.Status) (*models.Complaint, error)
}

// ErrorFunc surfaces a rejected update to the operator. The console has
// already restored the previous confirmed value when it fires.
type ErrorFunc func(complaintID string, err error)

// Console is one admin's view of the complaint list.
type Console struct {
	updater Updater
	onError ErrorFunc

	mu         sync.Mutex
	order      []string
	complaints map[string]models.Complaint // working copies shown to the operator
	confirmed  map[string]models.Complaint // last server-confirmed records
	detailID   string
}

// New creates a console over the given updater. onError may be nil.
func New(updater Updater, onError ErrorFunc) *Console {
	return &Console{
		updater:    updater,
		onError:    onError,
		complaints: make(map[string]models.Complaint),
		confirmed:  make(map[string]models.Complaint),
	}
}

// Load seeds the console with the fetched complaint list. Every entry is
// server-confirmed at this point.
func (c *Console) Load(complaints []models.Complaint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.order[:0]
	c.complaints = make(map[string]models.Complaint, len(complaints))
	c.confirmed = make(map[string]models.Complaint, len(complaints))
	for _, entry := range complaints {
		c.order = append(c.order, entry.ID)
		c.complaints[entry.ID] = entry
		c.confirmed[entry.ID] = entry
	}
}

// Complaints returns the list in its loaded order, with any optimistic
// edits applied.
func (c *Console) Complaints() []models.Complaint {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Complaint, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.complaints[id])
	}
	return out
}

// Get returns the working copy of one complaint.
func (c *Console) Get(id string) (models.Complaint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.complaints[id]
	return entry, ok
}

// OpenDetail marks a complaint as shown in the detail pane; an update to
// it keeps the pane in sync with the table.
func (c *Console) OpenDetail(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailID = id
}

// Detail returns the complaint currently open in the detail pane.
func (c *Console) Detail() (models.Complaint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detailID == "" {
		return models.Complaint{}, false
	}
	entry, ok := c.complaints[c.detailID]
	return entry, ok
}

// UpdateStatus applies the edit optimistically, issues the server request,
// and reconciles. On success the entry becomes the server's authoritative
// record (covering any server-derived fields beyond status). On failure
// the previous confirmed value is restored and the error surfaced, so the
// operator sees the true state and can re-trigger.
func (c *Console) UpdateStatus(id string, newStatus status.Status) error {
	c.mu.Lock()
	entry, ok := c.complaints[id]
	if !ok {
		c.mu.Unlock()
		log.Printf("console: no complaint %s loaded, ignoring update", id)
		return nil
	}
	entry.Status = newStatus
	c.complaints[id] = entry
	c.mu.Unlock()

	updated, err := c.updater.UpdateStatus(id, newStatus)

	c.mu.Lock()
	if err != nil {
		c.complaints[id] = c.confirmed[id]
		c.mu.Unlock()
		if c.onError != nil {
			c.onError(id, err)
		}
		return err
	}
	c.complaints[id] = *updated
	c.confirmed[id] = *updated
	c.mu.Unlock()
	return nil
}
