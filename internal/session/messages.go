package session

// Sender pushes outbound messages to a session's transport. The websocket
// hub implements it; tests substitute a recorder.
type Sender interface {
	Send(sessionID string, payload interface{}) error
}

// Outbound message types.
const (
	MsgQuestionDisplayed = "practice_question.displayed"
	MsgResponseCreate    = "response.create"
	MsgSessionPaused     = "session.paused"
)

type OutboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	// Instructions carries the prompt for response.create messages.
	Instructions string `json:"instructions,omitempty"`
}

// checkinInstructions is the gentle follow-up sent when the user has been
// quiet for a while after a practice question was shown.
const checkinInstructions = "The user has been quiet for a moment. Gently check in: ask if they would like a hint, want to hear the question again, or prefer a different question. Keep it short, warm, and non-pressuring."

// warningInstructions is spoken before an inactivity pause.
const warningInstructions = "The user has been inactive for a while. Let them know the session will pause soon to save their progress, and that they can continue any time by speaking."
