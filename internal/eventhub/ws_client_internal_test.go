package eventhub

import (
	"testing"
	"time"

	"civiport/backend/internal/models"
)

// TestNotifyDisconnect_AfterHubStopped verifies a connection dropping after
// shutdown does not hang handing itself to a hub that no longer reads
// UnregisterCh.
func TestNotifyDisconnect_AfterHubStopped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not shut down")
	}

	client := &WebSocketClient{
		ConnID: "conn-1",
		UserID: "user_A",
		Hub:    hub,
		Send:   make(chan models.ServerEvent, 1),
	}

	returned := make(chan struct{})
	go func() {
		client.notifyDisconnect()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("notifyDisconnect blocked on a stopped hub")
	}
}

// TestNotifyDisconnect_RunningHub verifies the normal path still reaches
// the hub's unregister handling.
func TestNotifyDisconnect_RunningHub(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &WebSocketClient{
		ConnID: "conn-2",
		UserID: "user_A",
		Hub:    hub,
		Send:   make(chan models.ServerEvent, 1),
	}
	hub.RegisterCh <- Registration{Client: client, OwnerID: "user_A"}

	client.notifyDisconnect()
	time.Sleep(100 * time.Millisecond)

	// The hub closed the Send channel during unregister.
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected Send to be closed, got an event")
		}
	default:
		t.Fatal("Send channel still open after unregister")
	}
}
