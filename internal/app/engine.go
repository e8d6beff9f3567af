package app

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"quizmaster-service/internal/domain"
)

// Scoring constants. The flat bonus for untimed sessions is a literal carried
// over from the product's scoring table, not derived from the timed formula.
const (
	basePoints     = 10
	flatTimeBonus  = 10
	streakBonusPer = 5
	maxStreakBonus = 25
)

// Event types published to attempt subscribers.
const (
	EventQuestion = "question"
	EventTick     = "tick"
	EventResolved = "resolved"
	EventPaused   = "paused"
	EventResumed  = "resumed"
	EventResults  = "results"
)

// Event is a view update published by the engine.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// QuestionView is the display form of the active question.
type QuestionView struct {
	Number       int      `json:"number"` // 1-based
	Total        int      `json:"total"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	Score        int      `json:"score"`
	Streak       int      `json:"streak"`
	TimerVisible bool     `json:"timerVisible"`
	TimeLeft     int      `json:"timeLeft"`
}

// TickEvent reports countdown progress. Warning is set near expiry, for
// audio feedback.
type TickEvent struct {
	Remaining int  `json:"remaining"`
	Warning   bool `json:"warning"`
}

// ResolutionView describes the outcome of one question.
type ResolutionView struct {
	Correct      bool   `json:"correct"`
	TimedOut     bool   `json:"timedOut"`
	Selected     int    `json:"selected"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	Awarded      int    `json:"awarded"`
	Score        int    `json:"score"`
	Streak       int    `json:"streak"`
	BestStreak   int    `json:"bestStreak"`
}

// PauseSnapshot is the progress summary shown while the quit modal is open.
type PauseSnapshot struct {
	Score        int `json:"score"`
	CorrectCount int `json:"correctCount"`
	Progress     int `json:"progress"` // percent of questions resolved
}

// Options tune an Engine. Zero values fall back to production defaults.
type Options struct {
	QuestionSeconds  int
	TickInterval     time.Duration
	HistoryLimit     int
	LeaderboardLimit int
	Now              func() time.Time
	Rand             *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.QuestionSeconds <= 0 {
		o.QuestionSeconds = DefaultQuestionSeconds
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 10
	}
	if o.LeaderboardLimit <= 0 {
		o.LeaderboardLimit = 5
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Engine drives one user's quiz attempt from topic selection to final
// result. All events (user input, timer ticks, expiry) are serialized
// through its mutex; the answered flag makes resolution first-writer-wins.
type Engine struct {
	user    domain.User
	catalog Catalog
	stats   StatsStore
	board   Leaderboard
	opts    Options

	mu          sync.Mutex
	state       SessionState
	timer       *Countdown
	lastResult  *Result
	subscribers map[chan Event]struct{}
}

// NewEngine builds an engine for one user. The collaborators are read at
// result time only; the attempt itself is pure in-memory state.
func NewEngine(user domain.User, catalog Catalog, stats StatsStore, board Leaderboard, opts Options) *Engine {
	return &Engine{
		user:        user,
		catalog:     catalog,
		stats:       stats,
		board:       board,
		opts:        opts.withDefaults(),
		state:       SessionState{Phase: PhaseIdle, Selected: NoSelection},
		subscribers: make(map[chan Event]struct{}),
	}
}

// User returns the attempt owner.
func (e *Engine) User() domain.User {
	return e.user
}

// State returns a copy of the session state for display and tests.
func (e *Engine) State() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the aggregate of the most recently completed attempt.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastResult == nil {
		return Result{}, false
	}
	return *e.lastResult, true
}

// Subscribe returns a channel receiving view events for this attempt. The
// caller must invoke the cancel function to avoid leaks.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	e.mu.Lock()
	e.subscribers[ch] = struct{}{}
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *Engine) broadcastLocked(ev Event) {
	for ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest pending event rather than block the engine on
			// a slow consumer.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Start loads the topic's questions and presents the first one. It validates
// the topic selection before touching any session state; load failures leave
// the attempt in Loading until the user starts over.
func (e *Engine) Start(ctx context.Context, topicID string, shuffle, timed bool) error {
	e.mu.Lock()
	switch e.state.Phase {
	case PhaseIdle, PhaseLoading, PhaseComplete:
	default:
		// Restarting mid-attempt requires quitting first.
		e.mu.Unlock()
		return nil
	}
	if topicID == "" {
		e.mu.Unlock()
		return domain.ErrNoTopicSelected
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.state.Phase = PhaseLoading
	e.mu.Unlock()

	topic, err := e.catalog.LoadTopic(ctx, topicID)
	if err != nil {
		return fmt.Errorf("load topic %q: %w", topicID, err)
	}
	if len(topic.Questions) == 0 {
		return domain.ErrQuestionsUnavailable
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseLoading {
		// Superseded by another start or an abandon while loading.
		return nil
	}

	e.state.reset()
	e.state.Topic = topic
	questions := make([]domain.Question, len(topic.Questions))
	copy(questions, topic.Questions)
	if shuffle {
		e.opts.Rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	e.state.Questions = questions
	e.state.ShuffleEnabled = shuffle
	e.state.TimerEnabled = timed

	timer := NewCountdown(e.opts.QuestionSeconds, e.opts.TickInterval, timed)
	timer.SetTickCallback(e.handleTick)
	timer.SetTimeoutCallback(e.handleTimeout)
	e.timer = timer
	e.lastResult = nil

	e.showQuestionLocked()
	return nil
}

// Select records a pending answer choice. Repeat selections overwrite each
// other; selections after resolution are ignored.
func (e *Engine) Select(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseQuestionActive || e.state.Answered {
		return
	}
	if index < 0 || index >= len(e.state.CurrentQuestion().Options) {
		return
	}
	e.state.Selected = index
}

// Submit resolves the current question with the pending selection. Without a
// selection, or once the question is already resolved, it is a no-op.
func (e *Engine) Submit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseQuestionActive || e.state.Answered {
		return
	}
	if e.state.Selected == NoSelection {
		return
	}
	e.resolveLocked(e.state.Selected, false)
}

// Next advances past a resolved question, completing the attempt after the
// last one.
func (e *Engine) Next(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseQuestionResolved {
		return
	}
	e.state.CurrentIndex++
	if e.state.CurrentIndex >= len(e.state.Questions) {
		e.completeLocked(ctx, false)
		return
	}
	e.showQuestionLocked()
}

// Pause freezes the attempt while the quit modal is open. The countdown
// stops applying ticks and a progress snapshot is published.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state.Phase {
	case PhaseQuestionActive, PhaseQuestionResolved:
	default:
		return
	}
	e.state.resumePhase = e.state.Phase
	e.state.Phase = PhasePaused
	e.timer.Pause()

	progress := 0
	if n := len(e.state.Questions); n > 0 {
		progress = int(math.Round(float64(e.state.ResolvedCount()) / float64(n) * 100))
	}
	e.broadcastLocked(Event{Type: EventPaused, Payload: PauseSnapshot{
		Score:        e.state.Score,
		CorrectCount: e.state.CorrectCount,
		Progress:     progress,
	}})
}

// Resume closes the quit modal and unfreezes the countdown.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhasePaused {
		return
	}
	e.state.Phase = e.state.resumePhase
	e.timer.Resume()
	e.broadcastLocked(Event{Type: EventResumed, Payload: nil})
}

// Quit confirms early termination from the quit modal. The attempt completes
// with results computed over the questions resolved so far.
func (e *Engine) Quit(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhasePaused {
		return
	}
	e.completeLocked(ctx, true)
}

// Abandon drops the attempt without scoring (navigate home). The session
// returns to Idle and the countdown is cancelled.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.state.reset()
	e.state.Phase = PhaseIdle
	e.state.Questions = nil
	e.state.Topic = domain.Topic{}
}

func (e *Engine) showQuestionLocked() {
	e.state.Answered = false
	e.state.Selected = NoSelection
	e.state.questionStart = e.opts.Now()
	e.state.Phase = PhaseQuestionActive

	visible := e.timer.Start()
	if visible {
		e.state.TimeLeft = e.opts.QuestionSeconds
	} else {
		e.state.TimeLeft = 0
	}

	q := e.state.CurrentQuestion()
	e.broadcastLocked(Event{Type: EventQuestion, Payload: QuestionView{
		Number:       e.state.CurrentIndex + 1,
		Total:        len(e.state.Questions),
		Text:         q.Text,
		Options:      q.Options,
		Score:        e.state.Score,
		Streak:       e.state.Streak,
		TimerVisible: visible,
		TimeLeft:     e.state.TimeLeft,
	}})
}

// handleTick runs on the countdown goroutine. Ticks landing after resolution
// or outside an active question are discarded.
func (e *Engine) handleTick(remaining int, warning bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseQuestionActive {
		return
	}
	e.state.TimeLeft = remaining
	e.broadcastLocked(Event{Type: EventTick, Payload: TickEvent{Remaining: remaining, Warning: warning}})
}

// handleTimeout runs on the countdown goroutine. A near-simultaneous submit
// wins the race via the answered guard and the expiry becomes a no-op.
func (e *Engine) handleTimeout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != PhaseQuestionActive || e.state.Answered {
		return
	}
	e.resolveLocked(domain.TimeoutAnswer, true)
}

// resolveLocked finalizes the current question exactly once, by submission
// or by expiry.
func (e *Engine) resolveLocked(selected int, timedOut bool) {
	e.timer.Stop()

	q := e.state.CurrentQuestion()
	correct := !timedOut && selected == q.CorrectIndex

	elapsed := e.opts.QuestionSeconds
	if !timedOut {
		elapsed = int(math.Round(e.opts.Now().Sub(e.state.questionStart).Seconds()))
		if elapsed < 0 {
			elapsed = 0
		}
	}
	e.state.QuestionTimes = append(e.state.QuestionTimes, elapsed)

	awarded := 0
	if correct {
		e.state.CorrectCount++
		e.state.Streak++
		if e.state.Streak > e.state.BestStreak {
			e.state.BestStreak = e.state.Streak
		}
		awarded = e.awardLocked()
		e.state.Score += awarded
	} else {
		e.state.Streak = 0
		e.state.Missed = append(e.state.Missed, domain.MissedQuestion{
			Question:   q,
			UserAnswer: selected,
		})
	}

	e.state.Answered = true
	e.state.Phase = PhaseQuestionResolved

	e.broadcastLocked(Event{Type: EventResolved, Payload: ResolutionView{
		Correct:      correct,
		TimedOut:     timedOut,
		Selected:     selected,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Awarded:      awarded,
		Score:        e.state.Score,
		Streak:       e.state.Streak,
		BestStreak:   e.state.BestStreak,
	}})
}

// awardLocked computes the points for a correct answer: base, plus a time
// bonus (twice the remaining seconds, or the flat constant when the
// countdown is off), plus a capped streak bonus.
func (e *Engine) awardLocked() int {
	timeBonus := flatTimeBonus
	if e.state.TimerEnabled {
		timeBonus = e.state.TimeLeft * 2
		if timeBonus < 0 {
			timeBonus = 0
		}
	}
	streakBonus := e.state.Streak * streakBonusPer
	if streakBonus > maxStreakBonus {
		streakBonus = maxStreakBonus
	}
	return basePoints + timeBonus + streakBonus
}
