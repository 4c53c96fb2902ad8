package websocket

import (
	"encoding/json"
	"time"

	"civics-tutor-be/internal/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // conversation event batches can be large
)

// Client is a middleman between one realtime connection and the rest of the
// system: inbound frames go to the conversation bus, outbound messages come
// from the hub's Send channel.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	// bus receives inbound conversation events.
	bus *gochannel.GoChannel

	// stopped is set when the client sent an explicit session.stop, so the
	// disconnect is not also reported as a pause.
	stopped bool
}

// readPump forwards inbound frames to the conversation bus. The session id
// is always injected server-side; a client cannot speak for another session.
func (c *Client) readPump() {
	defer func() {
		if !c.stopped {
			// An unannounced disconnect is a pause: state is retained for resume.
			c.publish(session.ConversationEvent{Type: session.EventSessionPause, SessionID: c.SessionID})
		}
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WsClient", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			break
		}

		var event session.ConversationEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.Hub.logger.Warn("WsClient", "Dropping malformed frame", map[string]interface{}{
				"session_id": c.SessionID,
				"error":      err.Error(),
			})
			continue
		}
		event.SessionID = c.SessionID

		if event.Type == session.EventSessionStop {
			c.stopped = true
		}
		c.publish(event)
	}
}

func (c *Client) publish(event session.ConversationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.Hub.logger.Error("WsClient", "Failed to marshal conversation event", map[string]interface{}{"error": err.Error()})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := c.bus.Publish(session.ConversationTopic, msg); err != nil {
		c.Hub.logger.Error("WsClient", "Failed to publish conversation event", map[string]interface{}{"error": err.Error()})
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
