package eventhub_test

import (
	"sync"

	"civiport/backend/internal/models"

	"github.com/google/uuid"
)

// MockClient is a test double for the eventhub.Client interface. Events the
// hub pushes land in RecvChannel for assertions. Close is called from the
// hub's goroutine, so the closed flag is mutex-guarded.
type MockClient struct {
	connID      string
	userID      string
	mu          sync.Mutex
	closed      bool
	RecvChannel chan models.ServerEvent
}

func newMockClient(userID string) *MockClient {
	return &MockClient{
		connID:      uuid.New().String(),
		userID:      userID,
		RecvChannel: make(chan models.ServerEvent, 10), // Buffered to prevent blocking in tests
	}
}

// newSlowMockClient has no buffer, so any hub send to it would block.
func newSlowMockClient(userID string) *MockClient {
	return &MockClient{
		connID:      uuid.New().String(),
		userID:      userID,
		RecvChannel: make(chan models.ServerEvent),
	}
}

func (c *MockClient) GetConnID() string { return c.connID }

func (c *MockClient) GetUserID() string { return c.userID }

func (c *MockClient) GetSendChannel() chan<- models.ServerEvent { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether the hub has closed this connection.
func (c *MockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// DrainEvents empties the receive channel (for test assertions).
func (c *MockClient) DrainEvents() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case evt := <-c.RecvChannel:
			events = append(events, evt)
		default:
			return events
		}
	}
}
