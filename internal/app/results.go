package app

import (
	"context"
	"fmt"
	"log"
	"math"

	"quizmaster-service/internal/domain"
)

// Result is the aggregate of a finished (or quit) attempt. Warnings carry
// persistence failures: they are observable here and in the logs but never
// block the result.
type Result struct {
	Topic          string                  `json:"topic"`
	TopicID        string                  `json:"topicId"`
	Score          int                     `json:"score"`
	CorrectCount   int                     `json:"correctCount"`
	AnsweredCount  int                     `json:"answeredCount"`
	TotalQuestions int                     `json:"totalQuestions"`
	Accuracy       int                     `json:"accuracy"`
	BestStreak     int                     `json:"bestStreak"`
	TotalTime      int                     `json:"totalTime"`
	AvgTime        int                     `json:"avgTime"`
	WasQuit        bool                    `json:"wasQuit"`
	HighScore      int                     `json:"highScore"`
	NewHighScore   bool                    `json:"newHighScore"`
	UnlockedBadges []string                `json:"unlockedBadges"`
	Missed         []domain.MissedQuestion `json:"missed"`
	Warnings       []string                `json:"warnings,omitempty"`
}

// ShareText renders the shareable summary of the attempt.
func (r Result) ShareText() string {
	return fmt.Sprintf(
		"🧠 QuizMaster Results!\n📚 Topic: %s\n\n⭐ Score: %d\n✅ Correct: %d/%d\n📊 Accuracy: %d%%\n🔥 Best Streak: %d\n\nCan you beat my score?",
		r.Topic, r.Score, r.CorrectCount, r.AnsweredCount, r.Accuracy, r.BestStreak,
	)
}

// completeLocked aggregates the attempt and persists its side effects. When
// wasQuit is set only the questions resolved so far count; the rest are
// excluded from accuracy and time statistics.
func (e *Engine) completeLocked(ctx context.Context, wasQuit bool) {
	e.timer.Stop()
	e.state.Phase = PhaseComplete

	answeredCount := len(e.state.Questions)
	if wasQuit {
		answeredCount = e.state.ResolvedCount()
	}

	totalTime := 0
	for _, t := range e.state.QuestionTimes {
		totalTime += t
	}
	accuracy, avgTime := 0, 0
	if answeredCount > 0 {
		accuracy = int(math.Round(float64(e.state.CorrectCount) / float64(answeredCount) * 100))
		avgTime = int(math.Round(float64(totalTime) / float64(answeredCount)))
	}

	res := Result{
		Topic:          e.state.Topic.Name,
		TopicID:        e.state.Topic.ID,
		Score:          e.state.Score,
		CorrectCount:   e.state.CorrectCount,
		AnsweredCount:  answeredCount,
		TotalQuestions: len(e.state.Questions),
		Accuracy:       accuracy,
		BestStreak:     e.state.BestStreak,
		TotalTime:      totalTime,
		AvgTime:        avgTime,
		WasQuit:        wasQuit,
		Missed:         e.state.Missed,
	}

	e.persistLocked(ctx, &res)

	e.lastResult = &res
	e.broadcastLocked(Event{Type: EventResults, Payload: res})
}

// persistLocked applies the attempt's side effects: the per-topic high score
// ratchet, the global leaderboard submission, and the full-replacement stats
// update with badge evaluation. Every failure degrades to a warning.
func (e *Engine) persistLocked(ctx context.Context, res *Result) {
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("attempt %s/%s: %s", e.user.ID, e.state.Topic.ID, msg)
		res.Warnings = append(res.Warnings, msg)
	}

	high, err := e.stats.LoadHighScore(ctx, e.user.ID, e.state.Topic.ID)
	if err != nil {
		// Saving against an unknown stored best could overwrite a higher
		// score, so the ratchet sits this attempt out.
		warn("load high score: %v", err)
	} else {
		res.HighScore = high
		if e.state.Score > high {
			if err := e.stats.SaveHighScore(ctx, e.user.ID, e.state.Topic.ID, e.state.Score); err != nil {
				warn("save high score: %v", err)
			} else {
				res.HighScore = e.state.Score
				res.NewHighScore = true
			}
		}
	}

	// At-most-once, no retry: a failed submission is reported and forgotten.
	if err := e.board.SubmitScore(ctx, domain.ScoreSubmission{
		Username:     e.user.Name,
		Topic:        e.state.Topic.ID,
		Score:        e.state.Score,
		CorrectCount: e.state.CorrectCount,
		TotalCount:   res.AnsweredCount,
	}); err != nil {
		warn("submit leaderboard score: %v", err)
	}

	stats, err := e.stats.LoadStats(ctx, e.user.ID)
	if err != nil {
		warn("load stats: %v", err)
		return
	}
	now := e.opts.Now()
	stats.XP += e.state.Score
	stats.TotalQuizzes++
	if res.Accuracy > stats.BestAccuracy {
		stats.BestAccuracy = res.Accuracy
	}
	stats.History = append([]domain.HistoryEntry{{
		Topic:    e.state.Topic.Name,
		Score:    e.state.Score,
		Accuracy: res.Accuracy,
		Date:     now.Format("2006-01-02"),
	}}, stats.History...)
	if len(stats.History) > e.opts.HistoryLimit {
		stats.History = stats.History[:e.opts.HistoryLimit]
	}

	res.UnlockedBadges = e.evaluateBadgesLocked(&stats, res.Accuracy, now.Hour())

	if err := e.stats.SaveStats(ctx, e.user.ID, stats); err != nil {
		warn("save stats: %v", err)
	}
}
