package websocket

import (
	"civics-tutor-be/internal/session"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs one realtime connection. A connection carrying a known session
// id with resume=true restores the paused session before the open fires; any
// other connection starts a fresh session.
func ServeWs(hub *Hub, bus *gochannel.GoChannel, c *websocket.Conn) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	resuming := c.Query("resume") == "true"

	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		bus:       bus,
	}
	client.Hub.register <- client

	if resuming {
		client.publish(session.ConversationEvent{Type: session.EventSessionResume, SessionID: sessionID})
	}
	client.publish(session.ConversationEvent{Type: session.EventSessionOpen, SessionID: sessionID})

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
