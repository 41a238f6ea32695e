package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/clockquest/clockquest/clockquest/database/repositories"
)

// Challenge track tuning. Each track is a ladder of goals; completing
// one level spawns the next.
var (
	dailyMinutesGoals = []float64{10, 20, 30}
	streakDayGoals    = []float64{3, 7, 14, 21, 30}
)

// streakRequiredMinutesPerDay is the play time a local day needs to
// count toward the streak.
const streakRequiredMinutesPerDay = 10.0

const localDayFormat = "2006-01-02"

// QuestService keeps each player's two challenge cards (daily play and
// streak) consistent with their quest-run history. Day boundaries are
// evaluated in the configured location, not UTC.
type QuestService struct {
	quests    repositories.QuestRepository
	questRuns repositories.QuestRunRepository
	loc       *time.Location
	now       func() time.Time
}

func NewQuestService(quests repositories.QuestRepository, questRuns repositories.QuestRunRepository, loc *time.Location) *QuestService {
	return &QuestService{
		quests:    quests,
		questRuns: questRuns,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *QuestService) localDay(t time.Time) string {
	return t.In(s.loc).Format(localDayFormat)
}

func (s *QuestService) minutesByDay(ctx context.Context, playerID int64) (map[string]float64, error) {
	runs, err := s.questRuns.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quest runs: %w", err)
	}

	byDay := make(map[string]float64)
	for _, run := range runs {
		byDay[s.localDay(run.StartedAt)] += run.Minutes()
	}
	return byDay, nil
}

// currentStreakDays counts consecutive qualifying local days ending
// today. A day under the minute threshold breaks the run; an
// unqualified today means no streak at all.
func (s *QuestService) currentStreakDays(minutesByDay map[string]float64) int {
	today := s.now().In(s.loc)
	if minutesByDay[today.Format(localDayFormat)] < streakRequiredMinutesPerDay {
		return 0
	}

	streak := 0
	day := today
	for minutesByDay[day.Format(localDayFormat)] >= streakRequiredMinutesPerDay {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func goalFromCompleted(completedCount int, goals []float64) float64 {
	if completedCount >= len(goals) {
		completedCount = len(goals) - 1
	}
	return goals[completedCount]
}

// ensureTrack guarantees one active card for a progression track. When
// the metric already satisfies the current goal, the level is recorded
// as complete and the next one spawns in the same call, so a player
// returning after a long day lands on the right ladder rung.
func (s *QuestService) ensureTrack(
	ctx context.Context,
	playerID int64,
	questType string,
	describe func(target float64) string,
	goals []float64,
	metricValue float64,
	completedCountOverride *int,
) error {
	active, err := s.quests.GetActiveByType(ctx, playerID, questType)
	if err != nil {
		return fmt.Errorf("failed to load active %s quests: %w", questType, err)
	}
	if len(active) > 0 {
		return nil
	}

	var completedCount int
	if completedCountOverride != nil {
		completedCount = *completedCountOverride
	} else {
		completedCount, err = s.quests.CountCompletedByType(ctx, playerID, questType)
		if err != nil {
			return fmt.Errorf("failed to count completed %s quests: %w", questType, err)
		}
	}

	for {
		target := goalFromCompleted(completedCount, goals)
		completed := metricValue >= target

		progress := metricValue
		if progress > target {
			progress = target
		}

		quest := &models.Quest{
			PlayerID:    playerID,
			QuestType:   questType,
			Description: describe(target),
			Target:      target,
			Progress:    progress,
			Completed:   completed,
			Mode:        "quest",
		}
		if err := s.quests.Create(ctx, quest); err != nil {
			return fmt.Errorf("failed to create %s quest: %w", questType, err)
		}

		// Stop once an active card exists or the ladder is exhausted.
		atMaxGoal := completedCount >= len(goals)-1
		if !completed || atMaxGoal {
			return nil
		}
		completedCount++
	}
}

// GenerateQuests reconciles the player's challenge cards and returns
// the active set: legacy types retire, racing duplicates collapse,
// stale daily cards from prior days close, metrics refresh, and each
// track ends up with exactly one active card.
func (s *QuestService) GenerateQuests(ctx context.Context, playerID int64) ([]*models.Quest, error) {
	// Retire active cards of types no longer generated.
	active, err := s.quests.GetActive(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active quests: %w", err)
	}
	for _, q := range active {
		if q.QuestType == models.QuestTypeDailyPlay || q.QuestType == models.QuestTypeDailyStreak {
			continue
		}
		q.Completed = true
		if err := s.quests.Update(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to retire legacy quest %d: %w", q.ID, err)
		}
		slog.Info("Retired legacy quest",
			slog.Int64("player_id", playerID),
			slog.String("quest_type", q.QuestType))
	}

	// Concurrent requests can race a second active card into a track;
	// keep the oldest and close the rest.
	for _, questType := range []string{models.QuestTypeDailyPlay, models.QuestTypeDailyStreak} {
		dups, err := s.quests.GetActiveByType(ctx, playerID, questType)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s quests: %w", questType, err)
		}
		if len(dups) < 2 {
			continue
		}
		for _, dup := range dups[1:] {
			dup.Completed = true
			if err := s.quests.Update(ctx, dup); err != nil {
				return nil, fmt.Errorf("failed to close duplicate quest %d: %w", dup.ID, err)
			}
		}
	}

	byDay, err := s.minutesByDay(ctx, playerID)
	if err != nil {
		return nil, err
	}
	today := s.localDay(s.now())
	todayMinutes := byDay[today]
	streakDays := s.currentStreakDays(byDay)

	// The daily challenge resets each local day: close any active daily
	// card carried over from a prior day.
	activeDaily, err := s.quests.GetActiveByType(ctx, playerID, models.QuestTypeDailyPlay)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily quests: %w", err)
	}
	for _, q := range activeDaily {
		if s.localDay(q.CreatedAt) < today {
			q.Completed = true
			if err := s.quests.Update(ctx, q); err != nil {
				return nil, fmt.Errorf("failed to close stale daily quest %d: %w", q.ID, err)
			}
		}
	}

	// The daily ladder position restarts each day: only levels finished
	// today count toward the next goal.
	completedDaily, err := s.quests.ListCompletedByType(ctx, playerID, models.QuestTypeDailyPlay)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed daily quests: %w", err)
	}
	dailyCompletedToday := 0
	for _, q := range completedDaily {
		if s.localDay(q.CreatedAt) == today {
			dailyCompletedToday++
		}
	}

	// Refresh surviving active cards from current local-day metrics so
	// yesterday's 30/30 does not display today.
	active, err = s.quests.GetActive(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active quests: %w", err)
	}
	for _, quest := range active {
		var metric float64
		switch quest.QuestType {
		case models.QuestTypeDailyPlay:
			metric = todayMinutes
		case models.QuestTypeDailyStreak:
			metric = float64(streakDays)
		default:
			continue
		}

		progress := metric
		if progress > quest.Target {
			progress = quest.Target
		}
		completed := metric >= quest.Target
		if quest.Progress != progress || quest.Completed != completed {
			quest.Progress = progress
			quest.Completed = completed
			if err := s.quests.Update(ctx, quest); err != nil {
				return nil, fmt.Errorf("failed to refresh quest %d: %w", quest.ID, err)
			}
		}
	}

	if err := s.ensureTrack(ctx, playerID, models.QuestTypeDailyPlay,
		func(target float64) string { return fmt.Sprintf("Play %d minutes today", int(target)) },
		dailyMinutesGoals, todayMinutes, &dailyCompletedToday,
	); err != nil {
		return nil, err
	}

	if err := s.ensureTrack(ctx, playerID, models.QuestTypeDailyStreak,
		func(target float64) string { return fmt.Sprintf("Play 10 minutes %d days in a row", int(target)) },
		streakDayGoals, float64(streakDays), nil,
	); err != nil {
		return nil, err
	}

	return s.quests.GetActive(ctx, playerID)
}

// UpdateQuestProgress refreshes the active cards' progress after a
// session without reshaping the card set.
func (s *QuestService) UpdateQuestProgress(ctx context.Context, playerID int64) ([]*models.Quest, error) {
	active, err := s.quests.GetActive(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active quests: %w", err)
	}

	byDay, err := s.minutesByDay(ctx, playerID)
	if err != nil {
		return nil, err
	}
	todayMinutes := byDay[s.localDay(s.now())]
	streakDays := s.currentStreakDays(byDay)

	for _, quest := range active {
		var metric float64
		switch quest.QuestType {
		case models.QuestTypeDailyPlay:
			metric = todayMinutes
		case models.QuestTypeDailyStreak:
			metric = float64(streakDays)
		default:
			continue
		}

		quest.Progress = metric
		if quest.Progress > quest.Target {
			quest.Progress = quest.Target
		}
		quest.Completed = metric >= quest.Target
		if err := s.quests.Update(ctx, quest); err != nil {
			return nil, fmt.Errorf("failed to update quest %d: %w", quest.ID, err)
		}
	}

	return active, nil
}
