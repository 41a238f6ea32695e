// Package progression holds the tier catalog and the pure scoring and
// trial-validation rules built on top of it. Everything here is static
// configuration or side-effect-free math; persistence lives elsewhere.
package progression

import "fmt"

// AbsoluteMaxPower is the hard ceiling of the clock power scale.
const AbsoluteMaxPower = 1000

// CharacterTip is a quest-start callout shown by a game character.
type CharacterTip struct {
	ID        string `json:"id"`
	Character string `json:"character"`
	Message   string `json:"message"`
}

// TrialConfig describes the skill check gating entry into a tier.
type TrialConfig struct {
	Difficulty string `json:"difficulty"`
	Questions  int    `json:"questions"`
	MinCorrect int    `json:"min_correct"`
	MaxHints   int    `json:"max_hints"`
	SpeedGate  bool   `json:"speed_gate"`
}

// TrialInfo is a TrialConfig annotated with the tier it unlocks.
type TrialInfo struct {
	Tier     int    `json:"tier"`
	TierName string `json:"tier_name"`
	TrialConfig
}

// TierDefinition is the complete definition of a single tier.
//
// QuestRunMix maps difficulty names to minimum proportions (sums to 1.0)
// and controls what questions appear during quest runs at this tier.
// Future per-tier game settings belong here, not in separate tables.
type TierDefinition struct {
	Index    int          `json:"index"`
	Name     string       `json:"name"`
	Color    string       `json:"color"`
	MinPower int          `json:"min_power"`
	MaxPower int          `json:"max_power"`
	Skill    string       `json:"skill,omitempty"`
	Trial    *TrialConfig `json:"-"`

	QuestRunMix   map[string]float64 `json:"quest_run_mix"`
	TimeFormatMix map[string]float64 `json:"time_format_mix"`

	// Percent progress through this tier (0-100) at which Set The Clock
	// switches to advanced hint mode.
	SetClockAdvancedHintProgressThreshold int `json:"set_clock_advanced_hint_progress_threshold"`
	// Score penalty applied per hint while in advanced hint mode.
	SetClockAdvancedHintPenalty int `json:"set_clock_advanced_hint_penalty"`
	// Chance (0.0-1.0) to show a quest-start character tip at this tier.
	QuestTipFrequency float64        `json:"quest_tip_frequency"`
	CharacterTips     []CharacterTip `json:"character_tips"`
}

var defaultTips = []CharacterTip{
	{ID: "tier_tip_a", Character: "tick", Message: "You're in tougher territory — stay focused."},
	{ID: "tier_tip_b", Character: "tick", Message: "Great rhythm beats rushing. You've got this."},
}

// Tiers is the authoritative ordered tier catalog, single source of
// truth for names, colors, power thresholds, skills and trials.
var Tiers = []TierDefinition{
	{
		Index: 0, Name: "Wood", Color: "#8B6914", MinPower: 0, MaxPower: 99,
		QuestRunMix:                           map[string]float64{"hour": 1.0},
		TimeFormatMix:                         map[string]float64{"digital": 0.7, "digital_ampm": 0.3},
		SetClockAdvancedHintProgressThreshold: 100,
		SetClockAdvancedHintPenalty:           0,
		QuestTipFrequency:                     0.8,
		CharacterTips: []CharacterTip{
			{ID: "wood_focus", Character: "tick", Message: "Let's start easy. Watch the short hand first!"},
			{ID: "wood_hint", Character: "tick", Message: "Need help? Tap Hint any time."},
		},
	},
	{
		Index: 1, Name: "Stone", Color: "#808080", MinPower: 100, MaxPower: 199,
		Skill:                                 "Reads hours on the clock",
		Trial:                                 &TrialConfig{Difficulty: "hour", Questions: 10, MinCorrect: 9, MaxHints: 3},
		QuestRunMix:                           map[string]float64{"hour": 0.3, "half": 0.7},
		TimeFormatMix:                         map[string]float64{"digital": 0.4, "digital_ampm": 0.3, "words_past_to": 0.3},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           1,
		QuestTipFrequency:                     0.6,
		CharacterTips: []CharacterTip{
			{ID: "tier_tip_a", Character: "tick", Message: "Steady hands. Accuracy first, speed second."},
			{ID: "tier_tip_b", Character: "tick", Message: "Use the target text, then set minute hand carefully."},
		},
	},
	{
		Index: 2, Name: "Coal", Color: "#333333", MinPower: 200, MaxPower: 299,
		Skill:                                 "Reads half past / half to",
		Trial:                                 &TrialConfig{Difficulty: "half", Questions: 10, MinCorrect: 9, MaxHints: 3},
		QuestRunMix:                           map[string]float64{"half": 0.2, "quarter": 0.8},
		TimeFormatMix:                         map[string]float64{"digital": 0.3, "digital_ampm": 0.2, "words_past_to": 0.5},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 3, Name: "Iron", Color: "#C0C0C0", MinPower: 300, MaxPower: 399,
		Skill:                                 "Reads quarter past / quarter to",
		Trial:                                 &TrialConfig{Difficulty: "quarter", Questions: 12, MinCorrect: 10, MaxHints: 2},
		QuestRunMix:                           map[string]float64{"quarter": 0.5, "five_min": 0.5},
		TimeFormatMix:                         map[string]float64{"digital": 0.1, "digital_ampm": 0.2, "words_past_to": 0.7},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 4, Name: "Gold", Color: "#FFD700", MinPower: 400, MaxPower: 499,
		Skill:                                 "Reads 5-minute intervals",
		Trial:                                 &TrialConfig{Difficulty: "five_min", Questions: 12, MinCorrect: 10, MaxHints: 2},
		QuestRunMix:                           map[string]float64{"quarter": 0.2, "five_min": 0.8},
		TimeFormatMix:                         map[string]float64{"digital": 0.2, "digital_ampm": 0.2, "words_past_to": 0.6},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 5, Name: "Redstone", Color: "#FF0000", MinPower: 500, MaxPower: 599,
		Skill:                                 "Reads 5-minute intervals quickly",
		Trial:                                 &TrialConfig{Difficulty: "five_min", Questions: 15, MinCorrect: 13, MaxHints: 1, SpeedGate: true},
		QuestRunMix:                           map[string]float64{"five_min": 0.5, "one_min": 0.5},
		TimeFormatMix:                         map[string]float64{"digital": 0.2, "words_past_to": 0.5, "full_words": 0.3},
		SetClockAdvancedHintProgressThreshold: 0,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 6, Name: "Lapis", Color: "#1E40AF", MinPower: 600, MaxPower: 699,
		Skill:                                 "Reads any minute precisely",
		Trial:                                 &TrialConfig{Difficulty: "one_min", Questions: 15, MinCorrect: 13, MaxHints: 1, SpeedGate: true},
		QuestRunMix:                           map[string]float64{"five_min": 0.2, "one_min": 0.8},
		TimeFormatMix:                         map[string]float64{"digital": 0.1, "words_past_to": 0.4, "full_words": 0.5},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 7, Name: "Diamond", Color: "#00CED1", MinPower: 700, MaxPower: 799,
		Skill:                                 "Masters mixed clock reading",
		Trial:                                 &TrialConfig{Difficulty: "mixed", Questions: 18, MinCorrect: 16, MaxHints: 1, SpeedGate: true},
		QuestRunMix:                           map[string]float64{"five_min": 0.1, "one_min": 0.9},
		TimeFormatMix:                         map[string]float64{"words_past_to": 0.3, "full_words": 0.7},
		SetClockAdvancedHintProgressThreshold: 0,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 8, Name: "Netherite", Color: "#4A0E4E", MinPower: 800, MaxPower: 899,
		Skill:                                 "Calculates time intervals",
		Trial:                                 &TrialConfig{Difficulty: "interval", Questions: 15, MinCorrect: 13, MaxHints: 0, SpeedGate: true},
		QuestRunMix:                           map[string]float64{"one_min": 0.7, "interval": 0.3},
		TimeFormatMix:                         map[string]float64{"words_past_to": 0.2, "full_words": 0.8},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 9, Name: "Beacon", Color: "#FFEA00", MinPower: 900, MaxPower: 999,
		Skill:                                 "Advanced time reasoning",
		Trial:                                 &TrialConfig{Difficulty: "mixed", Questions: 20, MinCorrect: 18, MaxHints: 0, SpeedGate: true},
		QuestRunMix:                           map[string]float64{"one_min": 0.5, "interval": 0.5},
		TimeFormatMix:                         map[string]float64{"digital_ampm": 0.1, "full_words": 0.9},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
	{
		Index: 10, Name: "Clock Master", Color: "#FF69B4", MinPower: 1000, MaxPower: 1000,
		Skill:                                 "Clock Master — full mastery!",
		Trial:                                 &TrialConfig{Difficulty: "mixed", Questions: 25, MinCorrect: 23, MaxHints: 0, SpeedGate: true},
		QuestRunMix:                           map[string]float64{"one_min": 0.3, "interval": 0.7},
		TimeFormatMix:                         map[string]float64{"full_words": 1.0},
		SetClockAdvancedHintProgressThreshold: 50,
		SetClockAdvancedHintPenalty:           2,
		QuestTipFrequency:                     0.5,
		CharacterTips:                         defaultTips,
	},
}

// MaxTier is the highest tier index.
var MaxTier = len(Tiers) - 1

func init() {
	for i, t := range Tiers {
		if t.Index != i {
			panic(fmt.Sprintf("tier catalog: index %d out of order", t.Index))
		}
		if i > 0 && t.MinPower != Tiers[i-1].MaxPower+1 {
			panic(fmt.Sprintf("tier catalog: power range gap before tier %d", i))
		}
		if t.MaxPower < t.MinPower {
			panic(fmt.Sprintf("tier catalog: inverted power range at tier %d", i))
		}
	}
	if Tiers[MaxTier].MaxPower != AbsoluteMaxPower {
		panic("tier catalog: last tier must own the absolute power ceiling")
	}
}

// GetTier returns the tier at index, clamped to the valid range.
func GetTier(index int) TierDefinition {
	if index < 0 {
		index = 0
	}
	if index > MaxTier {
		index = MaxTier
	}
	return Tiers[index]
}

// TierName returns the display name of a tier.
func TierName(index int) string {
	return GetTier(index).Name
}

// TierColor returns the display color of a tier.
func TierColor(index int) string {
	return GetTier(index).Color
}

// TierCeiling is the max clock power achievable while at this tier; a
// passed trial is required to go beyond it.
func TierCeiling(index int) int {
	ceiling := GetTier(index).MaxPower + 1
	if ceiling > AbsoluteMaxPower {
		ceiling = AbsoluteMaxPower
	}
	return ceiling
}

// PowerThresholds returns the (floor, ceiling) power values for a tier.
func PowerThresholds(index int) (int, int) {
	t := GetTier(index)
	return t.MinPower, t.MaxPower
}

// MasteredSkills returns the skills unlocked at or below currentTier,
// in tier order.
func MasteredSkills(currentTier int) []string {
	skills := make([]string, 0, len(Tiers))
	for _, t := range Tiers {
		if t.Skill != "" && t.Index <= currentTier {
			skills = append(skills, t.Skill)
		}
	}
	return skills
}

// TrialConfigFor returns the trial needed to unlock the given tier, or
// nil when the tier has none (tier 0) or the index is out of range.
func TrialConfigFor(tier int) *TrialInfo {
	if tier < 0 || tier > MaxTier {
		return nil
	}
	t := Tiers[tier]
	if t.Trial == nil {
		return nil
	}
	return &TrialInfo{Tier: t.Index, TierName: t.Name, TrialConfig: *t.Trial}
}

// TrialDefinitions returns all trial configs keyed by the tier they
// unlock.
func TrialDefinitions() map[int]TrialConfig {
	defs := make(map[int]TrialConfig)
	for _, t := range Tiers {
		if t.Trial != nil {
			defs[t.Index] = *t.Trial
		}
	}
	return defs
}

// TierList returns the full catalog for client consumption. Trial
// configs are exposed separately through TrialConfigFor.
func TierList() []TierDefinition {
	out := make([]TierDefinition, len(Tiers))
	copy(out, Tiers)
	return out
}
