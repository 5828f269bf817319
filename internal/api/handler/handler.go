package handler

import (
	"civiport/backend/internal/complaint"
	"civiport/backend/internal/eventhub"
	"civiport/backend/internal/storage"
)

// Handler carries the dependencies of the HTTP layer.
type Handler struct {
	Hub        *eventhub.Hub
	Storage    storage.Storage
	Complaints *complaint.Service
	JWTSecret  []byte
}

func NewHandler(hub *eventhub.Hub, s storage.Storage, svc *complaint.Service, jwtSecret []byte) *Handler {
	return &Handler{Hub: hub, Storage: s, Complaints: svc, JWTSecret: jwtSecret}
}
