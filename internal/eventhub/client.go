package eventhub

import "civiport/backend/internal/models"

// Client is the interface for one live connection to the hub. It abstracts
// the underlying transport so the hub can manage websocket connections and
// test doubles uniformly.
type Client interface {
	// GetConnID returns the unique identifier of this connection. A citizen
	// with several open tabs has several clients, each with its own ConnID.
	GetConnID() string

	// GetUserID returns the authenticated identity the connection was
	// established with. Registration requests are checked against it.
	GetUserID() string

	// GetSendChannel returns the channel the hub pushes outbound events
	// into. It is drained by the client's write pump.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts down the client's outbound channel. Safe to call more
	// than once.
	Close()
}

// Registration associates a live connection with the citizen identifier
// whose events it should receive. It lives only as long as the connection.
type Registration struct {
	Client  Client
	OwnerID string
}
