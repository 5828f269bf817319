package eventhub

import (
	"log"

	"civiport/backend/internal/models"
)

// Hub owns the registration table (ownerID -> set of live connections)
// and fans status change events out to the owner's connections. All
// mutations of the table happen inside Run's goroutine, so a broadcast
// always observes a consistent registration set.
type Hub struct {
	// registrations maps a citizen's ID to every connection currently
	// registered for them. Owned exclusively by the Run loop.
	registrations map[string]map[Client]bool
	// owners is the reverse index used to deregister on disconnect.
	owners map[Client]string

	RegisterCh   chan Registration
	UnregisterCh chan Client
	BroadcastCh  chan models.StatusChangeEvent

	stopCh chan struct{}
	// done is closed when Run returns; pumps select on it so a connection
	// dropping after shutdown never blocks on UnregisterCh.
	done chan struct{}
}

// NewHub initializes an empty hub. Call Run in its own goroutine before
// using the channels.
func NewHub() *Hub {
	return &Hub{
		registrations: make(map[string]map[Client]bool),
		owners:        make(map[Client]string),
		RegisterCh:    make(chan Registration),
		UnregisterCh:  make(chan Client),
		BroadcastCh:   make(chan models.StatusChangeEvent, 64),
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Broadcast hands a status change event to the hub without ever blocking
// the caller. Delivery is best-effort and at-most-once per connection; if
// the hub cannot keep up the event is dropped and the citizen catches up
// on their next fetch.
func (h *Hub) Broadcast(evt models.StatusChangeEvent) {
	select {
	case h.BroadcastCh <- evt:
	default:
		log.Printf("eventhub: broadcast queue full, dropping event for owner %s", evt.OwnerID)
	}
}

// Stop terminates the Run loop and closes every remaining client.
func (h *Hub) Stop() {
	close(h.stopCh)
}

// Run is the hub's dispatcher loop. It is the only goroutine that touches
// the registration table.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case reg := <-h.RegisterCh:
			h.register(reg)

		case client := <-h.UnregisterCh:
			h.unregister(client)

		case evt := <-h.BroadcastCh:
			h.fanOut(evt)

		case <-h.stopCh:
			for client := range h.owners {
				h.unregister(client)
			}
			return
		}
	}
}

// register adds the connection to the owner's set. Registering the same
// connection for the same owner twice is a no-op; re-registering under a
// different owner moves the connection.
func (h *Hub) register(reg Registration) {
	if prev, ok := h.owners[reg.Client]; ok {
		if prev == reg.OwnerID {
			return
		}
		h.removeFromGroup(reg.Client, prev)
	}

	group, ok := h.registrations[reg.OwnerID]
	if !ok {
		group = make(map[Client]bool)
		h.registrations[reg.OwnerID] = group
	}
	group[reg.Client] = true
	h.owners[reg.Client] = reg.OwnerID
	log.Printf("eventhub: connection %s registered for owner %s", reg.Client.GetConnID(), reg.OwnerID)
}

// unregister removes every registration of the connection and closes it.
// A broadcast processed after this point can no longer reach the client.
func (h *Hub) unregister(client Client) {
	owner, ok := h.owners[client]
	if !ok {
		return
	}
	h.removeFromGroup(client, owner)
	delete(h.owners, client)
	client.Close()
	log.Printf("eventhub: connection %s unregistered from owner %s", client.GetConnID(), owner)
}

func (h *Hub) removeFromGroup(client Client, ownerID string) {
	if group, ok := h.registrations[ownerID]; ok {
		delete(group, client)
		if len(group) == 0 {
			delete(h.registrations, ownerID)
		}
	}
}

// fanOut delivers the event to every connection registered for its owner.
// The send is non-blocking: a consumer whose buffer is full is dropped
// rather than allowed to stall the update path.
func (h *Hub) fanOut(evt models.StatusChangeEvent) {
	outbound := models.ServerEvent{
		Event:     models.EventComplaintStatusUpdated,
		Complaint: evt.Complaint,
	}

	for client := range h.registrations[evt.OwnerID] {
		select {
		case client.GetSendChannel() <- outbound:
		default:
			log.Printf("eventhub: connection %s too slow, dropping it", client.GetConnID())
			h.unregister(client)
		}
	}
}
