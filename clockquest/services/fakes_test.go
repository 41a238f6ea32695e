package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/clockquest/clockquest/clockquest/database/models"
)

// In-memory repository fakes shared by the service tests.

type fakeWorldRepo struct {
	worlds map[int64]*models.World
	nextID int64
}

func newFakeWorldRepo() *fakeWorldRepo {
	return &fakeWorldRepo{worlds: make(map[int64]*models.World), nextID: 1}
}

func (f *fakeWorldRepo) Create(_ context.Context, world *models.World) error {
	world.ID = f.nextID
	f.nextID++
	f.worlds[world.ID] = world
	return nil
}

func (f *fakeWorldRepo) GetByID(_ context.Context, id int64) (*models.World, error) {
	return f.worlds[id], nil
}

func (f *fakeWorldRepo) GetByJoinCode(_ context.Context, joinCode string) (*models.World, error) {
	for _, w := range f.worlds {
		if strings.EqualFold(w.JoinCode, joinCode) {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeWorldRepo) PlayerCount(_ context.Context, worldID int64) (int, error) {
	return 0, nil
}

func (f *fakeWorldRepo) Delete(_ context.Context, id int64) error {
	delete(f.worlds, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int64]*models.Player
	nextID  int64
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int64]*models.Player), nextID: 1}
}

func (f *fakePlayerRepo) add(player *models.Player) *models.Player {
	if player.ID == 0 {
		player.ID = f.nextID
		f.nextID++
	}
	f.players[player.ID] = player
	return player
}

func (f *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	f.add(player)
	return nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int64) (*models.Player, error) {
	return f.players[id], nil
}

func (f *fakePlayerRepo) ListByWorld(_ context.Context, worldID int64) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range f.players {
		if p.WorldID == worldID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClockPower != out[j].ClockPower {
			return out[i].ClockPower > out[j].ClockPower
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakePlayerRepo) TopByPower(_ context.Context, worldID *int64, limit int) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range f.players {
		if worldID == nil || p.WorldID == *worldID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClockPower != out[j].ClockPower {
			return out[i].ClockPower > out[j].ClockPower
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePlayerRepo) UpdateProgress(_ context.Context, player *models.Player) error {
	f.players[player.ID] = player
	return nil
}

func (f *fakePlayerRepo) Delete(_ context.Context, id int64) error {
	delete(f.players, id)
	return nil
}

type fakeSessionRepo struct {
	sessions []*models.Session
	players  *fakePlayerRepo
	nextID   int64
}

func newFakeSessionRepo(players *fakePlayerRepo) *fakeSessionRepo {
	return &fakeSessionRepo{players: players, nextID: 1}
}

func (f *fakeSessionRepo) RecordSession(_ context.Context, session *models.Session, newPower float64) error {
	session.ID = f.nextID
	f.nextID++
	f.sessions = append(f.sessions, session)
	if p := f.players.players[session.PlayerID]; p != nil {
		p.ClockPower = newPower
	}
	return nil
}

func (f *fakeSessionRepo) ListByPlayer(_ context.Context, playerID int64) ([]*models.Session, error) {
	var out []*models.Session
	for _, s := range f.sessions {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) PointsSince(_ context.Context, playerID int64, since time.Time) (float64, error) {
	var total float64
	for _, s := range f.sessions {
		if s.PlayerID == playerID && !s.CreatedAt.Before(since) {
			total += s.PointsEarned
		}
	}
	return total, nil
}

type fakeTrialRepo struct {
	trials  []*models.TierTrial
	players *fakePlayerRepo
	nextID  int64
}

func newFakeTrialRepo(players *fakePlayerRepo) *fakeTrialRepo {
	return &fakeTrialRepo{players: players, nextID: 1}
}

func (f *fakeTrialRepo) RecordTrial(_ context.Context, trial *models.TierTrial) error {
	trial.ID = f.nextID
	f.nextID++
	f.trials = append(f.trials, trial)
	if trial.Passed {
		if p := f.players.players[trial.PlayerID]; p != nil {
			p.CurrentTier = trial.Tier
		}
	}
	return nil
}

func (f *fakeTrialRepo) ListByPlayer(_ context.Context, playerID int64) ([]*models.TierTrial, error) {
	var out []*models.TierTrial
	for _, t := range f.trials {
		if t.PlayerID == playerID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeQuestRepo struct {
	quests []*models.Quest
	nextID int64
}

func newFakeQuestRepo() *fakeQuestRepo {
	return &fakeQuestRepo{nextID: 1}
}

func (f *fakeQuestRepo) filter(playerID int64, questType *string, completed bool) []*models.Quest {
	var out []*models.Quest
	for _, q := range f.quests {
		if q.PlayerID != playerID || q.Completed != completed {
			continue
		}
		if questType != nil && q.QuestType != *questType {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeQuestRepo) GetActive(_ context.Context, playerID int64) ([]*models.Quest, error) {
	return f.filter(playerID, nil, false), nil
}

func (f *fakeQuestRepo) GetActiveByType(_ context.Context, playerID int64, questType string) ([]*models.Quest, error) {
	return f.filter(playerID, &questType, false), nil
}

func (f *fakeQuestRepo) ListCompletedByType(_ context.Context, playerID int64, questType string) ([]*models.Quest, error) {
	return f.filter(playerID, &questType, true), nil
}

func (f *fakeQuestRepo) CountCompletedByType(ctx context.Context, playerID int64, questType string) (int, error) {
	done, _ := f.ListCompletedByType(ctx, playerID, questType)
	return len(done), nil
}

func (f *fakeQuestRepo) Create(_ context.Context, quest *models.Quest) error {
	quest.ID = f.nextID
	f.nextID++
	if quest.CreatedAt.IsZero() {
		quest.CreatedAt = time.Now()
	}
	f.quests = append(f.quests, quest)
	return nil
}

func (f *fakeQuestRepo) Update(_ context.Context, quest *models.Quest) error {
	for i, q := range f.quests {
		if q.ID == quest.ID {
			f.quests[i] = quest
			return nil
		}
	}
	return nil
}

type fakeQuestRunRepo struct {
	runs   []*models.QuestRun
	nextID int64
}

func newFakeQuestRunRepo() *fakeQuestRunRepo {
	return &fakeQuestRunRepo{nextID: 1}
}

func (f *fakeQuestRunRepo) Create(_ context.Context, run *models.QuestRun) error {
	run.ID = f.nextID
	f.nextID++
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeQuestRunRepo) ListByPlayer(_ context.Context, playerID int64) ([]*models.QuestRun, error) {
	var out []*models.QuestRun
	for _, r := range f.runs {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTipRepo struct {
	seen []*models.PlayerTipSeen
}

func (f *fakeTipRepo) MarkSeen(_ context.Context, seen *models.PlayerTipSeen) error {
	f.seen = append(f.seen, seen)
	return nil
}

func (f *fakeTipRepo) SeenTipIDs(_ context.Context, playerID int64, tierIndex int) ([]string, error) {
	var out []string
	for _, s := range f.seen {
		if s.PlayerID == playerID && s.TierIndex == tierIndex {
			out = append(out, s.TipID)
		}
	}
	return out, nil
}
