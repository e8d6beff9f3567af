package app

import (
	"time"

	"quizmaster-service/internal/domain"
)

// Phase is the explicit state of a quiz attempt.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseLoading          Phase = "loading"
	PhaseQuestionActive   Phase = "question_active"
	PhaseQuestionResolved Phase = "question_resolved"
	PhasePaused           Phase = "paused"
	PhaseComplete         Phase = "complete"
)

// NoSelection means no option has been picked for the current question.
const NoSelection = -1

// SessionState is the authoritative mutable record of one quiz attempt. It
// is owned exclusively by the Engine; collaborators only ever see copies.
type SessionState struct {
	Phase       Phase
	resumePhase Phase // phase to restore on Resume

	Topic     domain.Topic
	Questions []domain.Question

	CurrentIndex int
	Score        int
	CorrectCount int
	Streak       int
	BestStreak   int

	Answered bool
	Selected int

	QuestionTimes []int
	Missed        []domain.MissedQuestion

	TimeLeft       int
	ShuffleEnabled bool
	TimerEnabled   bool

	questionStart time.Time
}

// reset clears all per-attempt counters ahead of a fresh question sequence.
func (s *SessionState) reset() {
	s.CurrentIndex = 0
	s.Score = 0
	s.CorrectCount = 0
	s.Streak = 0
	s.BestStreak = 0
	s.Answered = false
	s.Selected = NoSelection
	s.QuestionTimes = nil
	s.Missed = nil
	s.TimeLeft = 0
}

// CurrentQuestion returns the active question. Callers must ensure the index
// is in range (it always is outside Idle/Loading/Complete).
func (s *SessionState) CurrentQuestion() domain.Question {
	return s.Questions[s.CurrentIndex]
}

// ResolvedCount is how many questions have been finalized so far: every
// question advanced past, plus the current one if it has been resolved but
// not yet advanced.
func (s *SessionState) ResolvedCount() int {
	n := s.CurrentIndex
	if s.Answered {
		n++
	}
	return n
}

// InProgress reports whether the attempt holds a live question sequence.
func (s *SessionState) InProgress() bool {
	switch s.Phase {
	case PhaseQuestionActive, PhaseQuestionResolved, PhasePaused:
		return true
	}
	return false
}
