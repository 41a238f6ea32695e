package progression

// speedGateMSPerQuestion is the per-question time allowance enforced by
// speed-gated trials.
const speedGateMSPerQuestion = 60000

// ValidateTrial reports whether a trial attempt for the given tier
// passes. Tiers without a trial (tier 0 or out of range) never pass.
// A nil timeMS skips the speed gate; older clients do not report it.
func ValidateTrial(tier, correct, hintsUsed int, timeMS *int) bool {
	info := TrialConfigFor(tier)
	if info == nil {
		return false
	}

	if correct < info.MinCorrect {
		return false
	}
	if hintsUsed > info.MaxHints {
		return false
	}
	if info.SpeedGate && timeMS != nil && *timeMS > info.Questions*speedGateMSPerQuestion {
		return false
	}
	return true
}
