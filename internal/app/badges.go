package app

import "quizmaster-service/internal/domain"

// evaluateBadgesLocked unlocks any badges earned by this attempt. Unlocking
// is idempotent: the badge set only ever grows, and re-earned badges are
// no-ops. Returns the badges newly unlocked by this attempt.
func (e *Engine) evaluateBadgesLocked(stats *domain.UserStats, accuracy, hour int) []string {
	var unlocked []string
	unlock := func(id string) {
		if stats.HasBadge(id) {
			return
		}
		stats.Badges = append(stats.Badges, id)
		unlocked = append(unlocked, id)
	}

	unlock(domain.BadgeFirstQuiz)

	if accuracy == 100 {
		unlock(domain.BadgePerfectAccuracy)
	}
	if e.state.BestStreak >= 5 {
		unlock(domain.BadgeStreak5)
	}
	for _, t := range e.state.QuestionTimes {
		if t < 3 {
			unlock(domain.BadgeSpeedDemon)
			break
		}
	}
	// TotalQuizzes has already been incremented for this attempt.
	if stats.TotalQuizzes >= 5 {
		unlock(domain.BadgeLoyalUser)
	}
	if hour >= 22 || hour < 5 {
		unlock(domain.BadgeNightOwl)
	}
	return unlocked
}
