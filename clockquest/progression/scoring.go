package progression

import "math"

// Bonuses and base reward for a completed play session.
const (
	sessionBasePoints  = 5.0
	streakBonusPoints  = 5.0
	perfectBonusPoints = 5.0
	streakBonusAt      = 5
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CalculateSessionPoints returns the clock power earned by a finished
// session. Every session pays a flat base plus one point per correct
// answer; a best-streak of streakBonusAt or more adds a bonus, and a
// perfect hint-free session adds another. The award is clamped so the
// player's power cannot pass the current tier's ceiling without a
// trial.
func CalculateSessionPoints(questions, correct, hintsUsed, maxStreak int, clockPower float64, currentTier int) float64 {
	if questions <= 0 {
		return 0.0
	}

	points := sessionBasePoints + float64(correct)
	if maxStreak >= streakBonusAt {
		points += streakBonusPoints
	}
	if correct == questions && hintsUsed == 0 {
		points += perfectBonusPoints
	}

	ceiling := float64(TierCeiling(currentTier))
	if clockPower+points > ceiling {
		points = ceiling - clockPower
	}
	if points < 0 {
		points = 0
	}
	return round1(points)
}
