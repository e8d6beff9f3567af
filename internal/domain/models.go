package domain

// Question is an immutable multiple-choice catalog entry.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// Topic groups a question set with its display metadata.
type Topic struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Icon          string     `json:"icon"`
	QuestionCount int        `json:"questionCount"`
	Questions     []Question `json:"questions,omitempty"`
}

// User is an entry in the built-in user list.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar"`
	PasswordHash []byte `json:"-"`
}

// HistoryEntry records one finished attempt in a user's activity feed.
type HistoryEntry struct {
	Topic    string `json:"topic"`
	Score    int    `json:"score"`
	Accuracy int    `json:"accuracy"`
	Date     string `json:"date"`
}

// UserStats is the persisted per-user aggregate, replaced wholesale on save.
// History is most-recent-first and capped; Badges only ever grows.
type UserStats struct {
	XP           int            `json:"xp"`
	TotalQuizzes int            `json:"totalQuizzes"`
	BestAccuracy int            `json:"bestAccuracy"`
	History      []HistoryEntry `json:"history"`
	Badges       []string       `json:"badges"`
}

// HasBadge reports whether the badge id is already unlocked.
func (s UserStats) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// TimeoutAnswer is the sentinel recorded when a question expires unanswered.
const TimeoutAnswer = -1

// MissedQuestion pairs a question with the wrong answer the user gave.
// UserAnswer is TimeoutAnswer when the question timed out.
type MissedQuestion struct {
	Question   Question `json:"question"`
	UserAnswer int      `json:"userAnswer"`
}

// ScoreSubmission is the payload sent to the global leaderboard.
type ScoreSubmission struct {
	Username     string `json:"username"`
	Topic        string `json:"topic"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correctCount"`
	TotalCount   int    `json:"totalCount"`
}

// LeaderboardEntry is one topic champion on the global leaderboard.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Topic    string `json:"topic"`
	Score    int    `json:"score"`
}
