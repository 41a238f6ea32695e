package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/clockquest/clockquest/clockquest/database/repositories"
	"github.com/clockquest/clockquest/clockquest/progression"
)

// SessionSubmission is a finished play session reported by the client.
type SessionSubmission struct {
	PlayerID      int64  `json:"player_id"`
	Mode          string `json:"mode"`
	Difficulty    string `json:"difficulty"`
	Questions     int    `json:"questions"`
	Correct       int    `json:"correct"`
	HintsUsed     int    `json:"hints_used"`
	MaxStreak     int    `json:"max_streak"`
	AvgResponseMS *int   `json:"avg_response_ms"`
	SpeedrunScore *int   `json:"speedrun_score"`
}

// SessionResult reports the outcome of a submitted session.
type SessionResult struct {
	Session          *models.Session `json:"session"`
	Player           *models.Player  `json:"player"`
	PointsEarned     float64         `json:"points_earned"`
	NewClockPower    float64         `json:"new_clock_power"`
	NewTier          int             `json:"new_tier"`
	TierUp           bool            `json:"tier_up"`
	ChallengeUpdates []*models.Quest `json:"challenge_updates"`
}

// TrialSubmission is a tier trial attempt reported by the client.
type TrialSubmission struct {
	PlayerID  int64 `json:"player_id"`
	Tier      int   `json:"tier"`
	Questions int   `json:"questions"`
	Correct   int   `json:"correct"`
	HintsUsed int   `json:"hints_used"`
	TimeMS    *int  `json:"time_ms"`
}

// TrialResult reports the outcome of a trial attempt.
type TrialResult struct {
	Trial    *models.TierTrial `json:"trial"`
	Passed   bool              `json:"passed"`
	Player   *models.Player    `json:"player"`
	TierName string            `json:"tier_name"`
	Message  string            `json:"message"`
}

// Briefing is the player's hub view: tier standing, skills, challenge
// cards and an optional character tip.
type Briefing struct {
	Player            *models.Player            `json:"player"`
	TierName          string                    `json:"tier_name"`
	TierColor         string                    `json:"tier_color"`
	NextTierName      *string                   `json:"next_tier_name"`
	NextTierThreshold *int                      `json:"next_tier_threshold"`
	TierProgressPct   float64                   `json:"tier_progress_pct"`
	MasteredSkills    []string                  `json:"mastered_skills"`
	Challenges        []*models.Quest           `json:"challenges"`
	Tip               *progression.CharacterTip `json:"tip,omitempty"`
}

// QuestRunSubmission is a timed quest-mode run reported by the client.
type QuestRunSubmission struct {
	PlayerID        int64     `json:"player_id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Completed       bool      `json:"completed"`
}

// ProgressionService coordinates scoring, tier advancement and quest
// refresh around the pure rules in the progression package.
type ProgressionService struct {
	players   repositories.PlayerRepository
	sessions  repositories.SessionRepository
	trials    repositories.TrialRepository
	questRuns repositories.QuestRunRepository
	tips      repositories.TipRepository
	quests    *QuestService
	rng       func() float64
}

func NewProgressionService(
	players repositories.PlayerRepository,
	sessions repositories.SessionRepository,
	trials repositories.TrialRepository,
	questRuns repositories.QuestRunRepository,
	tips repositories.TipRepository,
	quests *QuestService,
) *ProgressionService {
	return &ProgressionService{
		players:   players,
		sessions:  sessions,
		trials:    trials,
		questRuns: questRuns,
		tips:      tips,
		quests:    quests,
		rng:       rand.Float64,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SubmitSession validates and scores a session, moves the player's
// clock power and refreshes their challenge cards.
func (s *ProgressionService) SubmitSession(ctx context.Context, data SessionSubmission) (*SessionResult, error) {
	player, err := s.players.GetByID(ctx, data.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	if data.Questions < 1 {
		return nil, fmt.Errorf("%w: questions must be at least 1", ErrInvalidInput)
	}
	if data.Correct < 0 || data.HintsUsed < 0 || data.MaxStreak < 0 {
		return nil, fmt.Errorf("%w: counts cannot be negative", ErrInvalidInput)
	}
	if data.Correct > data.Questions {
		return nil, fmt.Errorf("%w: correct cannot exceed questions", ErrInvalidInput)
	}

	points := progression.CalculateSessionPoints(
		data.Questions, data.Correct, data.HintsUsed, data.MaxStreak,
		player.ClockPower, player.CurrentTier,
	)

	session := &models.Session{
		PlayerID:      player.ID,
		Mode:          data.Mode,
		Difficulty:    data.Difficulty,
		Questions:     data.Questions,
		Correct:       data.Correct,
		HintsUsed:     data.HintsUsed,
		MaxStreak:     data.MaxStreak,
		AvgResponseMS: data.AvgResponseMS,
		SpeedrunScore: data.SpeedrunScore,
		PointsEarned:  points,
		CreatedAt:     time.Now(),
	}

	oldTier := player.CurrentTier
	newPower := round1(player.ClockPower + points)

	if err := s.sessions.RecordSession(ctx, session, newPower); err != nil {
		return nil, err
	}
	player.ClockPower = newPower

	if _, err := s.quests.UpdateQuestProgress(ctx, player.ID); err != nil {
		return nil, err
	}
	challenges, err := s.quests.GenerateQuests(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("Session recorded",
		slog.Int64("player_id", player.ID),
		slog.String("mode", data.Mode),
		slog.Float64("points", points),
		slog.Float64("clock_power", newPower))

	return &SessionResult{
		Session:          session,
		Player:           player,
		PointsEarned:     points,
		NewClockPower:    newPower,
		NewTier:          player.CurrentTier,
		TierUp:           player.CurrentTier > oldTier,
		ChallengeUpdates: challenges,
	}, nil
}

// SubmitTrial validates a tier trial attempt, records it and advances
// the player's tier on a pass. The attempted tier must be the next one
// up, and the player's power must have reached its floor.
func (s *ProgressionService) SubmitTrial(ctx context.Context, data TrialSubmission) (*TrialResult, error) {
	player, err := s.players.GetByID(ctx, data.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	expectedTier := player.CurrentTier + 1
	if data.Tier != expectedTier {
		return nil, fmt.Errorf("%w: player should attempt tier %d, not %d", ErrInvalidInput, expectedTier, data.Tier)
	}

	requiredPower := progression.GetTier(data.Tier).MinPower
	if player.ClockPower < float64(requiredPower) {
		return nil, fmt.Errorf("%w: need %d Clock Power (have %g)", ErrInvalidInput, requiredPower, player.ClockPower)
	}

	passed := progression.ValidateTrial(data.Tier, data.Correct, data.HintsUsed, data.TimeMS)

	trial := &models.TierTrial{
		PlayerID:  player.ID,
		Tier:      data.Tier,
		Passed:    passed,
		Questions: data.Questions,
		Correct:   data.Correct,
		HintsUsed: data.HintsUsed,
		TimeMS:    data.TimeMS,
		CreatedAt: time.Now(),
	}
	if err := s.trials.RecordTrial(ctx, trial); err != nil {
		return nil, err
	}

	tierName := progression.TierName(data.Tier)
	var message string
	if passed {
		player.CurrentTier = data.Tier
		message = fmt.Sprintf("You unlocked %s!", tierName)
		slog.Info("Tier unlocked",
			slog.Int64("player_id", player.ID),
			slog.Int("tier", data.Tier),
			slog.String("tier_name", tierName))
	} else {
		config := progression.TrialConfigFor(data.Tier)
		message = fmt.Sprintf("Not quite! You needed %d/%d correct. Keep practising!", config.MinCorrect, config.Questions)
	}

	return &TrialResult{
		Trial:    trial,
		Passed:   passed,
		Player:   player,
		TierName: tierName,
		Message:  message,
	}, nil
}

// TrialConfig looks up the trial definition unlocking a tier. Tier 0
// and out-of-range tiers have no trial.
func (s *ProgressionService) TrialConfig(tier int) (*progression.TrialInfo, error) {
	info := progression.TrialConfigFor(tier)
	if info == nil {
		return nil, ErrNoTrial
	}
	return info, nil
}

// GetBriefing assembles the player's hub view and reconciles their
// challenge cards on the way.
func (s *ProgressionService) GetBriefing(ctx context.Context, playerID int64) (*Briefing, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	currentTier := player.CurrentTier
	currentDef := progression.GetTier(currentTier)

	var nextTierName *string
	var nextTierThreshold *int
	if currentTier < progression.MaxTier {
		name := progression.TierName(currentTier + 1)
		threshold := progression.GetTier(currentTier + 1).MinPower
		nextTierName = &name
		nextTierThreshold = &threshold
	}

	tierFloor := currentDef.MinPower
	tierCeiling := currentDef.MaxPower + 1
	if currentTier >= progression.MaxTier {
		tierCeiling = progression.AbsoluteMaxPower
	}
	tierRange := tierCeiling - tierFloor
	progressPct := 100.0
	if tierRange > 0 {
		progressPct = (player.ClockPower - float64(tierFloor)) / float64(tierRange) * 100
	}

	challenges, err := s.quests.GenerateQuests(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	tip, err := s.pickTip(ctx, player)
	if err != nil {
		// The briefing is still useful without a tip.
		slog.Warn("Failed to pick character tip",
			slog.Int64("player_id", player.ID),
			slog.Any("error", err))
		tip = nil
	}

	return &Briefing{
		Player:            player,
		TierName:          currentDef.Name,
		TierColor:         currentDef.Color,
		NextTierName:      nextTierName,
		NextTierThreshold: nextTierThreshold,
		TierProgressPct:   round1(progressPct),
		MasteredSkills:    progression.MasteredSkills(currentTier),
		Challenges:        challenges,
		Tip:               tip,
	}, nil
}

// pickTip rolls the tier's tip frequency and, on a hit, returns a tip
// from the tier pool, preferring ones the player has not seen.
func (s *ProgressionService) pickTip(ctx context.Context, player *models.Player) (*progression.CharacterTip, error) {
	tier := progression.GetTier(player.CurrentTier)
	if len(tier.CharacterTips) == 0 || s.rng() >= tier.QuestTipFrequency {
		return nil, nil
	}

	seenIDs, err := s.tips.SeenTipIDs(ctx, player.ID, tier.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to load seen tips: %w", err)
	}
	seen := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	var unseen []progression.CharacterTip
	for _, tip := range tier.CharacterTips {
		if !seen[tip.ID] {
			unseen = append(unseen, tip)
		}
	}

	pool := tier.CharacterTips
	if len(unseen) > 0 {
		pool = unseen
	}
	tip := pool[int(s.rng()*float64(len(pool)))%len(pool)]
	return &tip, nil
}

// MarkTipSeen records that the player has seen a character tip.
func (s *ProgressionService) MarkTipSeen(ctx context.Context, playerID int64, tierIndex int, tipID string) error {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return ErrPlayerNotFound
	}
	if tipID == "" {
		return fmt.Errorf("%w: tip_id is required", ErrInvalidInput)
	}

	return s.tips.MarkSeen(ctx, &models.PlayerTipSeen{
		PlayerID:  playerID,
		TierIndex: tierIndex,
		TipID:     tipID,
		SeenAt:    time.Now(),
	})
}

// RecordQuestRun stores a timed quest-mode run; its minutes feed the
// daily and streak challenge tracks.
func (s *ProgressionService) RecordQuestRun(ctx context.Context, data QuestRunSubmission) (*models.QuestRun, error) {
	player, err := s.players.GetByID(ctx, data.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	if data.EndedAt.Before(data.StartedAt) {
		return nil, fmt.Errorf("%w: ended_at must be >= started_at", ErrInvalidInput)
	}
	if data.DurationSeconds < 0 {
		return nil, fmt.Errorf("%w: duration_seconds cannot be negative", ErrInvalidInput)
	}

	run := &models.QuestRun{
		PlayerID:        data.PlayerID,
		StartedAt:       data.StartedAt,
		EndedAt:         data.EndedAt,
		DurationSeconds: data.DurationSeconds,
		Completed:       data.Completed,
		CreatedAt:       time.Now(),
	}
	if err := s.questRuns.Create(ctx, run); err != nil {
		return nil, err
	}

	return run, nil
}
