package handler_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
	"github.com/matchday-app/matchday-api/internal/repository"
)

// fakeBackend is an in-memory stand-in for the MySQL layer.  It implements
// both participation.Store (for the ledger) and handler.MatchStore (for the
// organizer endpoints) against the same maps, so handler tests observe a
// single consistent world.  The store mutex serializes WithinTx the way
// the match row lock does in production.
type fakeBackend struct {
	mu sync.Mutex

	nextMatchID       int64
	nextParticipantID int64

	schedules       map[int64]model.SchedulePlacement
	matches         map[int64]model.Match
	participants    map[int64]model.MatchParticipant
	matchBySchedule map[int64]int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextMatchID:       1,
		nextParticipantID: 1,
		schedules:         map[int64]model.SchedulePlacement{},
		matches:           map[int64]model.Match{},
		participants:      map[int64]model.MatchParticipant{},
		matchBySchedule:   map[int64]int64{},
	}
}

// --- seeding helpers ---

func (b *fakeBackend) addSchedule(id int64, day string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schedules[id] = model.SchedulePlacement{
		Schedule: model.Schedule{
			ID: id, FieldID: 1, Day: day, Start: "18:00", End: "19:00", IsAvailable: true,
		},
		LocationID: 1,
		SportID:    1,
	}
}

// addMatch seeds a public ten-player match and returns its id.  mutate can
// adjust any field before insertion.
func (b *fakeBackend) addMatch(mutate func(*model.Match)) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextMatchID
	b.nextMatchID++
	m := model.Match{
		ID:            id,
		CreatorID:     "organizer",
		SportID:       1,
		LocationID:    1,
		MatchDate:     time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:     "18:00",
		EndTime:       "19:00",
		MaxPlayers:    10,
		LevelRequired: model.LevelBeginner,
		Gender:        model.GenderMixed,
		IsPublic:      true,
		AutoValidate:  true,
		Status:        model.MatchOpen,
	}
	if mutate != nil {
		mutate(&m)
	}
	m.ID = id
	if m.ScheduleID != nil {
		b.matchBySchedule[*m.ScheduleID] = id
	}
	b.matches[id] = m
	return id
}

func (b *fakeBackend) seedAccepted(matchID int64, userID string, team model.Team) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextParticipantID
	b.nextParticipantID++
	b.participants[id] = model.MatchParticipant{
		ID: id, MatchID: matchID, UserID: userID,
		Team: team, Status: model.ParticipantAccepted,
	}
	return id
}

// fillMatch seeds n accepted participants, five per team at most.
func (b *fakeBackend) fillMatch(matchID int64, n int) {
	teams := []model.Team{model.TeamPurple, model.TeamYellow}
	for i := 0; i < n; i++ {
		b.seedAccepted(matchID, userN(i), teams[i/5%2])
	}
}

func userN(i int) string {
	return fmt.Sprintf("seed-user-%d", i)
}

func (b *fakeBackend) participant(id int64) (model.MatchParticipant, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.participants[id]
	return p, ok
}

func (b *fakeBackend) match(id int64) (model.Match, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.matches[id]
	return m, ok
}

// --- participation.Store ---

func (b *fakeBackend) WithinTx(ctx context.Context, fn func(tx participation.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b)
}

// --- participation.Tx ---

func (b *fakeBackend) MatchForUpdate(ctx context.Context, matchID int64) (model.Match, error) {
	m, ok := b.matches[matchID]
	if !ok {
		return model.Match{}, participation.ErrNotFound
	}
	return m, nil
}

func (b *fakeBackend) CountAccepted(ctx context.Context, matchID int64) (int, error) {
	n := 0
	for _, p := range b.participants {
		if p.MatchID == matchID && p.Status == model.ParticipantAccepted {
			n++
		}
	}
	return n, nil
}

func (b *fakeBackend) CountAcceptedOnTeam(ctx context.Context, matchID int64, team model.Team) (int, error) {
	n := 0
	for _, p := range b.participants {
		if p.MatchID == matchID && p.Status == model.ParticipantAccepted && p.Team == team {
			n++
		}
	}
	return n, nil
}

func (b *fakeBackend) Participant(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	for _, p := range b.participants {
		if p.MatchID == matchID && p.UserID == userID {
			return p, nil
		}
	}
	return model.MatchParticipant{}, participation.ErrNotFound
}

func (b *fakeBackend) ParticipantByID(ctx context.Context, id int64) (model.MatchParticipant, error) {
	p, ok := b.participants[id]
	if !ok {
		return model.MatchParticipant{}, participation.ErrNotFound
	}
	return p, nil
}

func (b *fakeBackend) UpsertParticipant(ctx context.Context, matchID int64, userID string, team model.Team, status model.ParticipantStatus) (model.MatchParticipant, error) {
	for id, p := range b.participants {
		if p.MatchID == matchID && p.UserID == userID {
			p.Team = team
			p.Status = status
			b.participants[id] = p
			return p, nil
		}
	}
	id := b.nextParticipantID
	b.nextParticipantID++
	p := model.MatchParticipant{ID: id, MatchID: matchID, UserID: userID, Team: team, Status: status}
	b.participants[id] = p
	return p, nil
}

func (b *fakeBackend) SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (model.MatchParticipant, error) {
	p, ok := b.participants[id]
	if !ok {
		return model.MatchParticipant{}, participation.ErrNotFound
	}
	p.Status = status
	b.participants[id] = p
	return p, nil
}

func (b *fakeBackend) SetParticipantConfirmed(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	for id, p := range b.participants {
		if p.MatchID == matchID && p.UserID == userID {
			p.Confirmed = true
			b.participants[id] = p
			return p, nil
		}
	}
	return model.MatchParticipant{}, participation.ErrNotFound
}

func (b *fakeBackend) DeleteParticipant(ctx context.Context, matchID int64, userID string) error {
	for id, p := range b.participants {
		if p.MatchID == matchID && p.UserID == userID {
			delete(b.participants, id)
			return nil
		}
	}
	return participation.ErrNotFound
}

func (b *fakeBackend) DeleteParticipantByID(ctx context.Context, id int64) error {
	if _, ok := b.participants[id]; !ok {
		return participation.ErrNotFound
	}
	delete(b.participants, id)
	return nil
}

func (b *fakeBackend) SetScheduleAvailability(ctx context.Context, scheduleID int64, available bool) error {
	sp, ok := b.schedules[scheduleID]
	if !ok {
		return participation.ErrNotFound
	}
	sp.IsAvailable = available
	b.schedules[scheduleID] = sp
	return nil
}

func (b *fakeBackend) SchedulePlacement(ctx context.Context, scheduleID int64) (model.SchedulePlacement, error) {
	sp, ok := b.schedules[scheduleID]
	if !ok {
		return model.SchedulePlacement{}, participation.ErrNotFound
	}
	return sp, nil
}

func (b *fakeBackend) UpsertMatchForSchedule(ctx context.Context, m model.Match) (int64, error) {
	sid := *m.ScheduleID
	if existingID, ok := b.matchBySchedule[sid]; ok {
		ex := b.matches[existingID]
		ex.MatchDate = m.MatchDate
		ex.StartTime = m.StartTime
		ex.EndTime = m.EndTime
		ex.LocationID = m.LocationID
		ex.SportID = m.SportID
		b.matches[existingID] = ex
		return existingID, nil
	}
	id := b.nextMatchID
	b.nextMatchID++
	m.ID = id
	b.matches[id] = m
	b.matchBySchedule[sid] = id
	return id, nil
}

// --- handler.MatchStore ---

func (b *fakeBackend) Create(ctx context.Context, m *model.Match) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m.ID = b.nextMatchID
	b.nextMatchID++
	b.matches[m.ID] = *m
	return nil
}

func (b *fakeBackend) GetByID(ctx context.Context, id int64) (*model.Match, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.matches[id]
	if !ok {
		return nil, repository.ErrMatchNotFound
	}
	out := m
	return &out, nil
}

func (b *fakeBackend) UpdateByIDAndCreator(ctx context.Context, m *model.Match, creatorID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur, ok := b.matches[m.ID]
	if !ok {
		return repository.ErrMatchNotFound
	}
	if cur.CreatorID != creatorID {
		return repository.ErrForbidden
	}
	b.matches[m.ID] = *m
	return nil
}

func (b *fakeBackend) DeleteByIDAndCreator(ctx context.Context, id int64, creatorID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur, ok := b.matches[id]
	if !ok {
		return repository.ErrMatchNotFound
	}
	if cur.CreatorID != creatorID {
		return repository.ErrForbidden
	}
	for pid, p := range b.participants {
		if p.MatchID == id {
			delete(b.participants, pid)
		}
	}
	if cur.ScheduleID != nil {
		if sp, ok := b.schedules[*cur.ScheduleID]; ok {
			sp.IsAvailable = true
			b.schedules[*cur.ScheduleID] = sp
		}
	}
	delete(b.matches, id)
	return nil
}
