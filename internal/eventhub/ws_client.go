package eventhub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"civiport/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements the eventhub.Client interface on top of a
// gorilla/websocket connection.
type WebSocketClient struct {
	ConnID string
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.ServerEvent

	closeOnce sync.Once
}

func (c *WebSocketClient) GetConnID() string                         { return c.ConnID }
func (c *WebSocketClient) GetUserID() string                         { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ServerEvent { return c.Send }

// Run starts the pumps for the websocket connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the Send channel, which stops writePump. readPump stops on
// its own once the underlying connection is closed.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// readPump reads registration commands from the websocket and forwards
// them to the hub. Registration is only honored for the identity the
// connection authenticated as; a client-supplied ownerId is never trusted
// on its own.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.notifyDisconnect()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var cmd models.ClientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			log.Printf("Error decoding JSON from connection %s: %v", c.ConnID, err)
			continue
		}

		if cmd.Action != models.ActionRegisterUser {
			continue
		}
		if cmd.OwnerID != c.UserID {
			log.Printf("connection %s asked to register as %s but authenticated as %s, ignoring",
				c.ConnID, cmd.OwnerID, c.UserID)
			continue
		}

		c.Hub.RegisterCh <- Registration{Client: c, OwnerID: c.UserID}
	}
}

// notifyDisconnect hands the connection back to the hub for deregistration.
// A hub that has already shut down no longer reads UnregisterCh, so the
// handoff also selects on its done signal instead of blocking forever.
func (c *WebSocketClient) notifyDisconnect() {
	select {
	case c.Hub.UnregisterCh <- c:
	case <-c.Hub.done:
	}
}

// writePump drains the Send channel into the websocket and keeps the
// connection alive with pings. Events are written in the order the hub
// queued them, which preserves per-connection FIFO delivery.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub, close the WS connection.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(evt)
			if err != nil {
				log.Printf("Error encoding JSON for connection %s: %v", c.ConnID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
