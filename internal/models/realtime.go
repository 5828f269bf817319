package models

import "civiport/backend/internal/status"

// Wire names shared between the hub and the browser/tracker clients.
const (
	ActionRegisterUser          = "registerUser"
	EventComplaintStatusUpdated = "complaintStatusUpdated"
)

// ClientCommand is the message a client sends over the websocket to
// declare which citizen's events the connection should receive.
type ClientCommand struct {
	Action  string `json:"action"`
	OwnerID string `json:"ownerId"`
}

// ServerEvent is the envelope pushed to registered connections.
// Complaint carries the full snapshot so consumers can replace their
// local entry wholesale instead of patching fields.
type ServerEvent struct {
	Event     string     `json:"event"`
	Complaint *Complaint `json:"complaint,omitempty"`
}

// StatusChangeEvent is produced exactly once per successful status update
// and fanned out to the owner's registered connections. It is transient:
// never persisted, never replayed.
type StatusChangeEvent struct {
	ComplaintID string        `json:"complaintId"`
	OwnerID     string        `json:"ownerId"`
	NewStatus   status.Status `json:"newStatus"`
	Complaint   *Complaint    `json:"complaint"`
}
