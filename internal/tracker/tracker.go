// Package tracker implements the citizen-side tracking view: it registers
// the connection for the citizen's events, fetches the current complaint
// list once, and from then on merges pushed status change events into its
// in-memory list without re-fetching. Missed events are not replayed, so
// every reconnect re-fetches the full list.
package tracker

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
)

// State is the lifecycle of one tracking view instance.
type State int

const (
	StateUnregistered State = iota
	StateConnecting
	StateRegistered
	StateLive
	StateDisconnected
	StateClosed
)

const (
	defaultReconnectWait    = time.Second
	maxReconnectWait        = 30 * time.Second
	defaultResyncInterval   = 2 * time.Minute
	defaultHandshakeTimeout = 10 * time.Second
)

// Fetcher loads the citizen's current complaint list from the REST API.
type Fetcher interface {
	FetchComplaints(ownerID string) ([]models.Complaint, error)
}

// Tracker is one live tracking view. Create with NewTracker, start with
// Run, release with Close.
type Tracker struct {
	OwnerID string
	WSURL   string
	Token   string
	Fetcher Fetcher

	// ReconnectWait is the initial retry backoff after a lost connection;
	// it doubles per attempt up to maxReconnectWait.
	ReconnectWait time.Duration
	// ResyncInterval bounds the staleness window from any undelivered
	// event with a low-frequency reconciliation fetch while Live.
	ResyncInterval time.Duration

	// OnChange is invoked with a copy of the list after every change. It
	// runs with the tracker's internal lock held, which is what guarantees
	// it is never invoked after Close returns; it must not call back into
	// the tracker.
	OnChange func(complaints []models.Complaint)

	dialer *websocket.Dialer

	mu         sync.Mutex
	state      State
	complaints []models.Complaint
	conn       *websocket.Conn
	closed     bool
	done       chan struct{}
}

// NewTracker builds a tracking view for one citizen. fetcher must not be nil.
func NewTracker(ownerID, wsURL, token string, fetcher Fetcher) *Tracker {
	return &Tracker{
		OwnerID:        ownerID,
		WSURL:          wsURL,
		Token:          token,
		Fetcher:        fetcher,
		ReconnectWait:  defaultReconnectWait,
		ResyncInterval: defaultResyncInterval,
		dialer:         &websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		done:           make(chan struct{}),
	}
}

// Run drives the connect/register/fetch/live loop until Close is called.
// Call it in its own goroutine.
func (t *Tracker) Run() {
	wait := t.ReconnectWait
	if wait <= 0 {
		wait = defaultReconnectWait
	}
	backoff := wait

	for {
		if t.isClosed() {
			return
		}

		err := t.session()
		if t.isClosed() {
			return
		}
		if err != nil {
			log.Printf("tracker %s: connection lost: %v", t.OwnerID, err)
		}

		t.setState(StateDisconnected)
		select {
		case <-t.done:
			return
		case <-time.After(backoff):
		}
		if backoff < maxReconnectWait {
			backoff *= 2
		}
	}
}

// session runs one connection lifetime: dial, register, fetch, then stay
// live merging events until the connection drops.
func (t *Tracker) session() error {
	t.setState(StateConnecting)

	header := http.Header{}
	if t.Token != "" {
		header.Set("Authorization", "Bearer "+t.Token)
	}
	conn, _, err := t.dialer.Dial(t.WSURL, header)
	if err != nil {
		return err
	}
	if !t.adoptConn(conn) {
		conn.Close()
		return nil
	}
	defer conn.Close()

	cmd := models.ClientCommand{Action: models.ActionRegisterUser, OwnerID: t.OwnerID}
	if err := conn.WriteJSON(cmd); err != nil {
		return err
	}
	t.setState(StateRegistered)

	// Registration precedes the fetch, so an update racing the fetch is
	// delivered as an event rather than lost.
	complaints, err := t.Fetcher.FetchComplaints(t.OwnerID)
	if err != nil {
		return err
	}
	t.replaceList(complaints)
	t.setState(StateLive)

	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go t.resyncLoop(sessionDone)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var evt models.ServerEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			log.Printf("tracker %s: dropping malformed event: %v", t.OwnerID, err)
			continue
		}
		if evt.Event != models.EventComplaintStatusUpdated || evt.Complaint == nil {
			continue
		}
		t.merge(evt.Complaint)
	}
}

// resyncLoop re-fetches the full list at a low frequency while the session
// is live, bounding staleness from any silently dropped event.
func (t *Tracker) resyncLoop(sessionDone <-chan struct{}) {
	if t.ResyncInterval <= 0 {
		return
	}
	ticker := time.NewTicker(t.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sessionDone:
			return
		case <-t.done:
			return
		case <-ticker.C:
			complaints, err := t.Fetcher.FetchComplaints(t.OwnerID)
			if err != nil {
				log.Printf("tracker %s: resync fetch failed: %v", t.OwnerID, err)
				continue
			}
			t.replaceList(complaints)
		}
	}
}

// merge applies one status change event: the entry with the matching ID is
// replaced by the event's snapshot; an unknown ID is appended (a complaint
// filed from another session). No other entries are touched.
func (t *Tracker) merge(snapshot *models.Complaint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	replaced := false
	for i := range t.complaints {
		if t.complaints[i].ID == snapshot.ID {
			t.complaints[i] = *snapshot
			replaced = true
			break
		}
	}
	if !replaced {
		t.complaints = append(t.complaints, *snapshot)
	}
	t.notifyLocked()
}

// Complaints returns a copy of the current list.
func (t *Tracker) Complaints() []models.Complaint {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Complaint, len(t.complaints))
	copy(out, t.complaints)
	return out
}

// State returns the view's current lifecycle state. StateDisconnected is a
// non-fatal "reconnecting" affordance, never an error screen.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Close releases the view. After Close returns, OnChange is never invoked
// again; a stale callback mutating unmounted state is exactly the bug this
// guards against.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.state = StateClosed
	conn := t.conn
	t.conn = nil
	close(t.done)
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Progress derives the render state of every progression step for a
// complaint. Unknown statuses degrade to all-future instead of crashing
// the renderer.
func Progress(c models.Complaint) []status.StepState {
	states := make([]status.StepState, len(status.Steps))
	for i, step := range status.Steps {
		states[i] = status.StateOf(step, c.Status)
	}
	return states
}

func (t *Tracker) adoptConn(conn *websocket.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.conn = conn
	return true
}

func (t *Tracker) replaceList(complaints []models.Complaint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.complaints = complaints
	t.notifyLocked()
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.state = s
}

func (t *Tracker) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// notifyLocked invokes OnChange under the tracker's lock. Holding the lock
// is what guarantees no invocation can race or follow Close.
func (t *Tracker) notifyLocked() {
	if t.OnChange == nil {
		return
	}
	out := make([]models.Complaint, len(t.complaints))
	copy(out, t.complaints)
	t.OnChange(out)
}
