package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"civics-tutor-be/internal/config"
	"civics-tutor-be/internal/pkg/logger"
	"civics-tutor-be/internal/service"
	"civics-tutor-be/pkg/events"
	pktNats "civics-tutor-be/pkg/nats"
)

const resolveTimeout = 10 * time.Second

// Engine reconciles the practice-question slot of every live session against
// the stream of model-emitted events. All state lives behind one mutex;
// handlers never panic out of the processing path, a bad event is logged and
// the loop moves on.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*sessionState

	search         service.ISearchService
	sender         Sender
	snapshots      SnapshotStore
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	cfg            config.SessionConfig
}

type sessionState struct {
	phase      Phase
	processed  map[string]struct{}
	slot       *DisplayedQuestion
	lastSpoken string

	// generation invalidates in-flight search resolutions: a resolution is
	// applied only if no newer question superseded it meanwhile.
	generation uint64

	checkinTimer *time.Timer
	warnTimer    *time.Timer
	pauseTimer   *time.Timer
	inWarning    bool
}

func NewEngine(
	search service.ISearchService,
	sender Sender,
	snapshots SnapshotStore,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	cfg config.SessionConfig,
) *Engine {
	return &Engine{
		sessions:       make(map[string]*sessionState),
		search:         search,
		sender:         sender,
		snapshots:      snapshots,
		eventPublisher: eventPublisher,
		logger:         log,
		cfg:            cfg,
	}
}

// Open handles a session transport coming up. A fresh session starts empty;
// an opening that completes a resume keeps the restored slot and tracker.
func (e *Engine) Open(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(sessionID)
	from := st.phase

	if st.phase == PhaseResuming {
		// Slot clear on open is suppressed: the restored state stands.
		st.phase = PhaseActive
	} else {
		st.processed = make(map[string]struct{})
		st.slot = nil
		st.lastSpoken = ""
		st.generation++
		st.phase = PhaseActive
	}

	e.armWatchdogLocked(sessionID, st)
	e.publishPhaseChange(sessionID, from, st.phase)
}

// Pause tears the session down for billing without losing UI continuity: the
// slot and spoken tracker are snapshotted for the next resume. The processed
// set is NOT cleared here; that happens at resume.
func (e *Engine) Pause(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseLocked(sessionID, e.state(sessionID))
}

func (e *Engine) pauseLocked(sessionID string, st *sessionState) {
	if st.phase != PhaseActive {
		return
	}
	from := st.phase

	e.snapshots.Save(&Snapshot{
		SessionID:  sessionID,
		Slot:       st.slot,
		LastSpoken: st.lastSpoken,
		PausedAt:   time.Now(),
	})

	stopTimersLocked(st)
	st.phase = PhasePaused
	e.publishPhaseChange(sessionID, from, st.phase)
}

// Resume restores the paused snapshot and clears the processed-call set so
// the model may legitimately re-ask the same question in the fresh session.
// The transition to ACTIVE completes when the new transport's Open arrives.
func (e *Engine) Resume(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(sessionID)
	if st.phase != PhasePaused {
		return
	}
	from := st.phase

	if snap, ok := e.snapshots.Get(sessionID); ok {
		st.slot = snap.Slot
		st.lastSpoken = snap.LastSpoken
		e.snapshots.Delete(sessionID)
	}
	st.processed = make(map[string]struct{})
	st.phase = PhaseResuming
	e.publishPhaseChange(sessionID, from, st.phase)
}

// Stop clears everything unconditionally.
func (e *Engine) Stop(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.sessions[sessionID]
	if !ok {
		return
	}
	from := st.phase

	stopTimersLocked(st)
	e.snapshots.Delete(sessionID)
	delete(e.sessions, sessionID)
	e.publishPhaseChange(sessionID, from, PhaseIdle)
}

// Phase reports the current phase of a session.
func (e *Engine) Phase(sessionID string) Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	if st, ok := e.sessions[sessionID]; ok {
		return st.phase
	}
	return PhaseIdle
}

// Slot returns a copy of the currently displayed question, if any.
func (e *Engine) Slot(sessionID string) *DisplayedQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.sessions[sessionID]
	if !ok || st.slot == nil {
		return nil
	}
	copied := *st.slot
	return &copied
}

// ProcessFunctionCalls reconciles a batch of observed function calls, newest
// first. At most one call per batch updates the slot; the rest are marked
// processed so later snapshots of the same event list stay no-ops.
func (e *Engine) ProcessFunctionCalls(sessionID string, calls []FunctionCall) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(sessionID)
	if st.phase != PhaseActive && st.phase != PhaseResuming {
		return
	}

	updated := false
	for _, call := range calls {
		if call.Name != PracticeQuestionFunction {
			continue
		}

		callID := call.CallID
		if callID == "" {
			// Some environments omit stable call ids.
			callID = call.Name + "|" + call.Arguments
		}

		if _, seen := st.processed[callID]; seen {
			continue
		}

		spoken, parsed := parseSpokenQuestion(call.Arguments)
		if !parsed {
			e.logger.Warn("SessionEngine", "Malformed function call arguments, resolving raw text", map[string]interface{}{
				"session_id": sessionID,
				"call_id":    callID,
			})
		}

		// Always mark processed, update or not, to avoid reprocessing.
		st.processed[callID] = struct{}{}

		if updated {
			continue
		}

		isDifferent := normalizeText(spoken) != normalizeText(st.lastSpoken)
		isFirst := st.lastSpoken == ""
		sidebarMismatch := st.slot != nil && normalizeText(st.slot.Question) != normalizeText(spoken)

		if !isDifferent && !isFirst && !sidebarMismatch {
			continue
		}

		updated = true
		st.lastSpoken = spoken
		st.generation++
		go e.resolve(sessionID, spoken, st.generation)
	}
}

// resolve looks the spoken text up in the corpus and, when still relevant,
// publishes the canonical match into the slot. Failures leave the slot
// untouched; the UI never regresses over a lookup miss.
func (e *Engine) resolve(sessionID, spoken string, generation uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	res, err := e.search.Search(ctx, spoken, 1)
	if err != nil {
		e.logger.Warn("SessionEngine", "Question resolution failed", map[string]interface{}{
			"session_id": sessionID,
			"spoken":     spoken,
			"error":      err.Error(),
		})
		return
	}
	if len(res.Results) == 0 {
		e.logger.Warn("SessionEngine", "Question resolution returned no match", map[string]interface{}{
			"session_id": sessionID,
			"spoken":     spoken,
		})
		return
	}

	top := res.Results[0]

	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.sessions[sessionID]
	if !ok {
		return
	}
	if st.generation != generation {
		// A newer question superseded this resolution while it was in flight.
		e.logger.Debug("SessionEngine", "Dropping stale resolution", map[string]interface{}{
			"session_id": sessionID,
			"spoken":     spoken,
		})
		return
	}
	if st.phase != PhaseActive && st.phase != PhaseResuming {
		return
	}

	st.slot = &DisplayedQuestion{
		QuestionID: top.QuestionID,
		Question:   top.Question,
		Answer:     top.Answer,
		Category:   top.Category,
	}

	e.send(sessionID, OutboundMessage{Type: MsgQuestionDisplayed, Data: st.slot})
	if e.eventPublisher != nil {
		if err := e.eventPublisher.Publish(ctx, events.NewQuestionDisplayed(sessionID, top.QuestionID)); err != nil {
			e.logger.Warn("SessionEngine", "Failed to publish question event", map[string]interface{}{"error": err.Error()})
		}
	}

	e.armCheckinLocked(sessionID, st)
}

// Activity records an activity event. User-originated activity cancels the
// pending check-in and always resets the watchdog. Model-originated activity
// resets the watchdog only outside a warning period, so the assistant's own
// warning announcement cannot defuse the warning it just raised.
func (e *Engine) Activity(sessionID string, userOriginated bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.sessions[sessionID]
	if !ok || st.phase != PhaseActive {
		return
	}

	if userOriginated {
		if st.checkinTimer != nil {
			st.checkinTimer.Stop()
			st.checkinTimer = nil
		}
	}

	if st.inWarning && !userOriginated {
		return
	}

	st.inWarning = false
	e.armWatchdogLocked(sessionID, st)
}

// armCheckinLocked arms the single gentle follow-up timer; arming again
// replaces any outstanding one.
func (e *Engine) armCheckinLocked(sessionID string, st *sessionState) {
	if st.checkinTimer != nil {
		st.checkinTimer.Stop()
	}
	st.checkinTimer = time.AfterFunc(e.cfg.CheckinDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		st, ok := e.sessions[sessionID]
		if !ok || st.phase != PhaseActive {
			return
		}
		st.checkinTimer = nil
		e.send(sessionID, OutboundMessage{Type: MsgResponseCreate, Instructions: checkinInstructions})
	})
}

// armWatchdogLocked resets the two-stage inactivity watchdog.
func (e *Engine) armWatchdogLocked(sessionID string, st *sessionState) {
	if st.warnTimer != nil {
		st.warnTimer.Stop()
	}
	if st.pauseTimer != nil {
		st.pauseTimer.Stop()
	}

	st.warnTimer = time.AfterFunc(e.cfg.InactivityWarning, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		st, ok := e.sessions[sessionID]
		if !ok || st.phase != PhaseActive {
			return
		}
		st.inWarning = true
		e.send(sessionID, OutboundMessage{Type: MsgResponseCreate, Instructions: warningInstructions})
	})

	st.pauseTimer = time.AfterFunc(e.cfg.InactivityPause, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		st, ok := e.sessions[sessionID]
		if !ok || st.phase != PhaseActive {
			return
		}
		e.send(sessionID, OutboundMessage{Type: MsgSessionPaused, Data: map[string]string{"reason": "inactivity"}})
		e.pauseLocked(sessionID, st)
	})
}

func (e *Engine) send(sessionID string, msg OutboundMessage) {
	if e.sender == nil {
		return
	}
	if err := e.sender.Send(sessionID, msg); err != nil {
		e.logger.Warn("SessionEngine", "Failed to send outbound message", map[string]interface{}{
			"session_id": sessionID,
			"type":       msg.Type,
			"error":      err.Error(),
		})
	}
}

func (e *Engine) publishPhaseChange(sessionID string, from, to Phase) {
	if e.eventPublisher == nil || from == to {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.eventPublisher.Publish(ctx, events.NewSessionPhaseChanged(sessionID, from.String(), to.String())); err != nil {
		e.logger.Warn("SessionEngine", "Failed to publish phase change", map[string]interface{}{"error": err.Error()})
	}
}

func (e *Engine) state(sessionID string) *sessionState {
	st, ok := e.sessions[sessionID]
	if !ok {
		st = &sessionState{
			phase:     PhaseIdle,
			processed: make(map[string]struct{}),
		}
		e.sessions[sessionID] = st
	}
	return st
}

func stopTimersLocked(st *sessionState) {
	if st.checkinTimer != nil {
		st.checkinTimer.Stop()
		st.checkinTimer = nil
	}
	if st.warnTimer != nil {
		st.warnTimer.Stop()
		st.warnTimer = nil
	}
	if st.pauseTimer != nil {
		st.pauseTimer.Stop()
		st.pauseTimer = nil
	}
	st.inWarning = false
}

// Both the "different question" and the "sidebar mismatch" checks compare
// trimmed, casefolded text.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
