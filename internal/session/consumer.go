package session

import (
	"context"
	"encoding/json"

	"civics-tutor-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ConversationTopic is the in-process bus topic the websocket handler
// publishes conversation events to.
const ConversationTopic = "conversation.events"

// Consumer drains the conversation event bus into the engine. Every message
// is acked: a malformed event is logged and dropped, never retried, because
// the stream must keep flowing for the life of the connection.
type Consumer struct {
	pubSub *gochannel.GoChannel
	engine *Engine
	logger logger.ILogger
}

func NewConsumer(pubSub *gochannel.GoChannel, engine *Engine, log logger.ILogger) *Consumer {
	return &Consumer{
		pubSub: pubSub,
		engine: engine,
		logger: log,
	}
}

func (c *Consumer) Consume(ctx context.Context) error {
	messages, err := c.pubSub.Subscribe(ctx, ConversationTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(msg)
		}
	}()

	return nil
}

func (c *Consumer) processMessage(msg *message.Message) {
	defer msg.Ack()

	var event ConversationEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Warn("SessionConsumer", "Failed to unmarshal conversation event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if event.SessionID == "" {
		c.logger.Warn("SessionConsumer", "Conversation event without session id", map[string]interface{}{
			"type": event.Type,
		})
		return
	}

	switch event.Type {
	case EventSessionOpen:
		c.engine.Open(event.SessionID)
	case EventSessionPause:
		c.engine.Pause(event.SessionID)
	case EventSessionResume:
		c.engine.Resume(event.SessionID)
	case EventSessionStop:
		c.engine.Stop(event.SessionID)
	case EventFunctionCalls:
		c.engine.ProcessFunctionCalls(event.SessionID, event.Calls)
	case EventUserActivity:
		c.engine.Activity(event.SessionID, true)
	case EventModelActivity:
		c.engine.Activity(event.SessionID, false)
	default:
		c.logger.Debug("SessionConsumer", "Ignoring unknown event type", map[string]interface{}{
			"type": event.Type,
		})
	}
}
