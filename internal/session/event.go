package session

import "encoding/json"

// PracticeQuestionFunction is the model tool call the engine reconciles on.
const PracticeQuestionFunction = "request_practice_question"

// Event types carried over the conversation bus.
const (
	EventSessionOpen   = "session.open"
	EventSessionPause  = "session.pause"
	EventSessionResume = "session.resume"
	EventSessionStop   = "session.stop"
	EventFunctionCalls = "conversation.function_calls"
	EventUserActivity  = "user.activity"
	EventModelActivity = "model.activity"
)

// FunctionCall is one model-emitted tool call observed on the conversation
// channel. CallID may be empty in environments that don't supply stable ids.
type FunctionCall struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ConversationEvent is the envelope the websocket handler publishes to the
// event bus, one message per observed event.
type ConversationEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	// Calls holds observed function calls, newest first, for
	// EventFunctionCalls messages.
	Calls []FunctionCall `json:"calls,omitempty"`
}

// functionCallArgs is the expected payload of a practice-question call.
type functionCallArgs struct {
	SpokenQuestion string `json:"spoken_question"`
}

// parseSpokenQuestion extracts the spoken question from raw call arguments.
// Malformed arguments fall back to the raw string so the call can still be
// resolved best-effort instead of being dropped.
func parseSpokenQuestion(arguments string) (string, bool) {
	var args functionCallArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil || args.SpokenQuestion == "" {
		return arguments, false
	}
	return args.SpokenQuestion, true
}
