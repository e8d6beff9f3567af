package domain

// Badge ids unlocked by the session engine at result time.
const (
	BadgeFirstQuiz       = "first_quiz"
	BadgePerfectAccuracy = "perfect_accuracy"
	BadgeStreak5         = "streak_5"
	BadgeSpeedDemon      = "speed_demon"
	BadgeLoyalUser       = "loyal_user"
	BadgeNightOwl        = "night_owl"
)

// Badge describes an achievement for dashboard display.
type Badge struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// BadgeCatalog lists every badge in display order.
func BadgeCatalog() []Badge {
	return []Badge{
		{ID: BadgeFirstQuiz, Label: "First Quiz", Icon: "🎯", Description: "Complete your first quiz"},
		{ID: BadgePerfectAccuracy, Label: "Perfect 100", Icon: "💎", Description: "Get 100% accuracy"},
		{ID: BadgeStreak5, Label: "Streak 5", Icon: "🔥", Description: "Reach a streak of 5"},
		{ID: BadgeSpeedDemon, Label: "Speed Demon", Icon: "⚡", Description: "Answer in under 3 seconds"},
		{ID: BadgeLoyalUser, Label: "Loyal Player", Icon: "👑", Description: "Play 5 quizzes"},
		{ID: BadgeNightOwl, Label: "Night Owl", Icon: "🦉", Description: "Play after 10 PM"},
	}
}

// Level is one step of the XP ladder.
type Level struct {
	MinXP int    `json:"minXP"`
	Label string `json:"label"`
}

var levels = []Level{
	{MinXP: 0, Label: "Level 1: Novice"},
	{MinXP: 500, Label: "Level 2: Apprentice"},
	{MinXP: 1500, Label: "Level 3: Scholar"},
	{MinXP: 3000, Label: "Level 4: Expert"},
	{MinXP: 5000, Label: "Level 5: Master"},
	{MinXP: 10000, Label: "Level 6: Grandmaster"},
}

// LevelForXP returns the highest level whose threshold the XP total meets.
func LevelForXP(xp int) Level {
	current := levels[0]
	for _, l := range levels {
		if xp >= l.MinXP {
			current = l
		}
	}
	return current
}
