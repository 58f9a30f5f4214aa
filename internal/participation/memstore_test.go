package participation_test

import (
	"context"
	"sync"
	"time"

	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
)

// memStore is an in-memory participation.Store used to exercise the engine
// without a database.  WithinTx holds the store mutex for the whole
// closure and restores a snapshot on error, which models the serializable,
// all-or-nothing behavior the MySQL implementation gets from the match row
// lock and transaction rollback.
type memStore struct {
	mu sync.Mutex

	nextMatchID       int64
	nextParticipantID int64

	schedules       map[int64]model.SchedulePlacement
	matches         map[int64]model.Match
	participants    map[int64]model.MatchParticipant
	matchBySchedule map[int64]int64
}

func newMemStore() *memStore {
	return &memStore{
		nextMatchID:       1,
		nextParticipantID: 1,
		schedules:         map[int64]model.SchedulePlacement{},
		matches:           map[int64]model.Match{},
		participants:      map[int64]model.MatchParticipant{},
		matchBySchedule:   map[int64]int64{},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx participation.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	nextMatchID       int64
	nextParticipantID int64
	schedules         map[int64]model.SchedulePlacement
	matches           map[int64]model.Match
	participants      map[int64]model.MatchParticipant
	matchBySchedule   map[int64]int64
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextMatchID:       s.nextMatchID,
		nextParticipantID: s.nextParticipantID,
		schedules:         make(map[int64]model.SchedulePlacement, len(s.schedules)),
		matches:           make(map[int64]model.Match, len(s.matches)),
		participants:      make(map[int64]model.MatchParticipant, len(s.participants)),
		matchBySchedule:   make(map[int64]int64, len(s.matchBySchedule)),
	}
	for k, v := range s.schedules {
		snap.schedules[k] = v
	}
	for k, v := range s.matches {
		snap.matches[k] = v
	}
	for k, v := range s.participants {
		snap.participants[k] = v
	}
	for k, v := range s.matchBySchedule {
		snap.matchBySchedule[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextMatchID = snap.nextMatchID
	s.nextParticipantID = snap.nextParticipantID
	s.schedules = snap.schedules
	s.matches = snap.matches
	s.participants = snap.participants
	s.matchBySchedule = snap.matchBySchedule
}

// addSchedule seeds a slot with field/location/sport linkage.
func (s *memStore) addSchedule(id int64, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[id] = model.SchedulePlacement{
		Schedule: model.Schedule{
			ID:          id,
			FieldID:     1,
			Day:         day,
			Start:       "18:00",
			End:         "19:00",
			IsAvailable: true,
		},
		LocationID: 1,
		SportID:    1,
	}
}

// addMatch seeds a match bound to scheduleID (0 for unbound) and returns
// its id.
func (s *memStore) addMatch(scheduleID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextMatchID
	s.nextMatchID++
	m := model.Match{
		ID:            id,
		CreatorID:     "creator",
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
	if scheduleID != 0 {
		sid := scheduleID
		m.ScheduleID = &sid
		s.matchBySchedule[scheduleID] = id
	}
	s.matches[id] = m
	return id
}

// addAccepted seeds an accepted participant row directly, bypassing the
// ledger; used to arrange capacity-boundary scenarios.
func (s *memStore) addAccepted(matchID int64, userID string, team model.Team, confirmed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextParticipantID
	s.nextParticipantID++
	s.participants[id] = model.MatchParticipant{
		ID:        id,
		MatchID:   matchID,
		UserID:    userID,
		Team:      team,
		Status:    model.ParticipantAccepted,
		Confirmed: confirmed,
	}
}

// acceptedCount is the computed-availability source of truth: the number
// of ACCEPTED rows for a match, recounted from the ledger.
func (s *memStore) acceptedCount(matchID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countAccepted(s.participants, matchID)
}

// storedAvailable reads the persisted slot flag.
func (s *memStore) storedAvailable(scheduleID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules[scheduleID].IsAvailable
}

// participantRows returns all ledger rows for a match.
func (s *memStore) participantRows(matchID int64) []model.MatchParticipant {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MatchParticipant
	for _, p := range s.participants {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) match(id int64) model.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[id]
}

func countAccepted(rows map[int64]model.MatchParticipant, matchID int64) int {
	n := 0
	for _, p := range rows {
		if p.MatchID == matchID && p.Status == model.ParticipantAccepted {
			n++
		}
	}
	return n
}

// memTx implements participation.Tx against the locked store.
type memTx struct {
	s *memStore
}

func (t *memTx) MatchForUpdate(ctx context.Context, matchID int64) (model.Match, error) {
	m, ok := t.s.matches[matchID]
	if !ok {
		return model.Match{}, participation.ErrNotFound
	}
	return m, nil
}

func (t *memTx) CountAccepted(ctx context.Context, matchID int64) (int, error) {
	return countAccepted(t.s.participants, matchID), nil
}

func (t *memTx) CountAcceptedOnTeam(ctx context.Context, matchID int64, team model.Team) (int, error) {
	n := 0
	for _, p := range t.s.participants {
		if p.MatchID == matchID && p.Status == model.ParticipantAccepted && p.Team == team {
			n++
		}
	}
	return n, nil
}

func (t *memTx) Participant(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	for _, p := range t.s.participants {
		if p.MatchID == matchID && p.UserID == userID {
			return p, nil
		}
	}
	return model.MatchParticipant{}, participation.ErrNotFound
}

func (t *memTx) ParticipantByID(ctx context.Context, id int64) (model.MatchParticipant, error) {
	p, ok := t.s.participants[id]
	if !ok {
		return model.MatchParticipant{}, participation.ErrNotFound
	}
	return p, nil
}

func (t *memTx) UpsertParticipant(ctx context.Context, matchID int64, userID string, team model.Team, status model.ParticipantStatus) (model.MatchParticipant, error) {
	for id, p := range t.s.participants {
		if p.MatchID == matchID && p.UserID == userID {
			p.Team = team
			p.Status = status
			t.s.participants[id] = p
			return p, nil
		}
	}
	id := t.s.nextParticipantID
	t.s.nextParticipantID++
	p := model.MatchParticipant{
		ID:      id,
		MatchID: matchID,
		UserID:  userID,
		Team:    team,
		Status:  status,
	}
	t.s.participants[id] = p
	return p, nil
}

func (t *memTx) SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (model.MatchParticipant, error) {
	p, ok := t.s.participants[id]
	if !ok {
		return model.MatchParticipant{}, participation.ErrNotFound
	}
	p.Status = status
	t.s.participants[id] = p
	return p, nil
}

func (t *memTx) SetParticipantConfirmed(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	for id, p := range t.s.participants {
		if p.MatchID == matchID && p.UserID == userID {
			p.Confirmed = true
			t.s.participants[id] = p
			return p, nil
		}
	}
	return model.MatchParticipant{}, participation.ErrNotFound
}

func (t *memTx) DeleteParticipant(ctx context.Context, matchID int64, userID string) error {
	for id, p := range t.s.participants {
		if p.MatchID == matchID && p.UserID == userID {
			delete(t.s.participants, id)
			return nil
		}
	}
	return participation.ErrNotFound
}

func (t *memTx) DeleteParticipantByID(ctx context.Context, id int64) error {
	if _, ok := t.s.participants[id]; !ok {
		return participation.ErrNotFound
	}
	delete(t.s.participants, id)
	return nil
}

func (t *memTx) SetScheduleAvailability(ctx context.Context, scheduleID int64, available bool) error {
	sp, ok := t.s.schedules[scheduleID]
	if !ok {
		return participation.ErrNotFound
	}
	sp.IsAvailable = available
	t.s.schedules[scheduleID] = sp
	return nil
}

func (t *memTx) SchedulePlacement(ctx context.Context, scheduleID int64) (model.SchedulePlacement, error) {
	sp, ok := t.s.schedules[scheduleID]
	if !ok {
		return model.SchedulePlacement{}, participation.ErrNotFound
	}
	return sp, nil
}

func (t *memTx) UpsertMatchForSchedule(ctx context.Context, m model.Match) (int64, error) {
	sid := *m.ScheduleID
	if existingID, ok := t.s.matchBySchedule[sid]; ok {
		ex := t.s.matches[existingID]
		ex.MatchDate = m.MatchDate
		ex.StartTime = m.StartTime
		ex.EndTime = m.EndTime
		ex.LocationID = m.LocationID
		ex.SportID = m.SportID
		t.s.matches[existingID] = ex
		return existingID, nil
	}
	id := t.s.nextMatchID
	t.s.nextMatchID++
	m.ID = id
	t.s.matches[id] = m
	t.s.matchBySchedule[sid] = id
	return id, nil
}
