package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matchday-app/matchday-api/internal/handler"
	"github.com/matchday-app/matchday-api/internal/metrics"
	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
)

func newMatchHandler(b *fakeBackend) *handler.MatchHandler {
	return &handler.MatchHandler{
		Matches:    b,
		Ledger:     participation.NewService(b, participation.DefaultCapacity()),
		Metrics:    metrics.Noop{},
		BcryptCost: 4,
	}
}

func TestEnsureMatchForSchedule(t *testing.T) {
	b := newFakeBackend()
	b.addSchedule(7, "2026-09-12")
	h := newMatchHandler(b)

	rec := invoke(t, h.EnsureMatchForSchedule, http.MethodPost, "", "organizer", matchParams(7))
	require.Equal(t, http.StatusOK, rec.Code)

	var first struct {
		MatchID    int64 `json:"match_id"`
		ScheduleID int64 `json:"schedule_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Equal(t, int64(7), first.ScheduleID)

	// a second caller gets the same match
	rec = invoke(t, h.EnsureMatchForSchedule, http.MethodPost, "", "someone-else", matchParams(7))
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		MatchID int64 `json:"match_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.Equal(t, first.MatchID, second.MatchID)
}

func TestEnsureMatchForScheduleUnknown(t *testing.T) {
	b := newFakeBackend()
	h := newMatchHandler(b)

	rec := invoke(t, h.EnsureMatchForSchedule, http.MethodPost, "", "organizer", matchParams(99))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnsureMatchForScheduleMalformedDay(t *testing.T) {
	b := newFakeBackend()
	b.addSchedule(5, "next saturday")
	h := newMatchHandler(b)

	rec := invoke(t, h.EnsureMatchForSchedule, http.MethodPost, "", "organizer", matchParams(5))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateMatch(t *testing.T) {
	b := newFakeBackend()
	h := newMatchHandler(b)

	body := `{"sport_id":1,"location_id":2,"match_date":"2026-10-03","start_time":"18:00","end_time":"19:30","price":5}`
	rec := invoke(t, h.CreateMatch, http.MethodPost, body, "organizer", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	m, ok := b.match(resp.ID)
	require.True(t, ok)
	require.Equal(t, "organizer", m.CreatorID)
	require.Equal(t, 10, m.MaxPlayers)
	require.Equal(t, model.LevelBeginner, m.LevelRequired)
	require.True(t, m.IsPublic)
	require.Nil(t, m.ScheduleID, "manual matches are not bound to a slot")
}

func TestCreateMatchRejectsMalformedDate(t *testing.T) {
	b := newFakeBackend()
	h := newMatchHandler(b)

	for _, date := range []string{"tomorrow", "03-10-2026", "2026-13-40", ""} {
		body := `{"sport_id":1,"location_id":2,"match_date":"` + date + `","start_time":"18:00","end_time":"19:30"}`
		rec := invoke(t, h.CreateMatch, http.MethodPost, body, "organizer", nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "date %q must be rejected", date)
	}
}

func TestCreateMatchPrivateRequiresCode(t *testing.T) {
	b := newFakeBackend()
	h := newMatchHandler(b)

	body := `{"sport_id":1,"location_id":2,"match_date":"2026-10-03","start_time":"18:00","end_time":"19:30","is_public":false}`
	rec := invoke(t, h.CreateMatch, http.MethodPost, body, "organizer", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body = `{"sport_id":1,"location_id":2,"match_date":"2026-10-03","start_time":"18:00","end_time":"19:30","is_public":false,"private_code":"sesame"}`
	rec = invoke(t, h.CreateMatch, http.MethodPost, body, "organizer", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	m, ok := b.match(resp.ID)
	require.True(t, ok)
	require.NotNil(t, m.PrivateCodeHash)
	require.NotContains(t, *m.PrivateCodeHash, "sesame")
}

func TestUpdateMatch(t *testing.T) {
	b := newFakeBackend()
	matchID := b.addMatch(nil)
	h := newMatchHandler(b)

	rec := invoke(t, h.UpdateMatch, http.MethodPatch, `{"level_required":"ADVANCED","price":12}`, "organizer", matchParams(matchID))
	require.Equal(t, http.StatusOK, rec.Code)

	m, ok := b.match(matchID)
	require.True(t, ok)
	require.Equal(t, model.LevelAdvanced, m.LevelRequired)
	require.Equal(t, 12, m.Price)
}

func TestUpdateMatchForbiddenForNonCreator(t *testing.T) {
	b := newFakeBackend()
	matchID := b.addMatch(nil)
	h := newMatchHandler(b)

	rec := invoke(t, h.UpdateMatch, http.MethodPatch, `{"price":12}`, "impostor", matchParams(matchID))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateMatchUnknown(t *testing.T) {
	b := newFakeBackend()
	h := newMatchHandler(b)

	rec := invoke(t, h.UpdateMatch, http.MethodPatch, `{"price":12}`, "organizer", matchParams(42))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMatch(t *testing.T) {
	b := newFakeBackend()
	b.addSchedule(7, "2026-09-12")
	sid := int64(7)
	matchID := b.addMatch(func(m *model.Match) { m.ScheduleID = &sid })
	b.fillMatch(matchID, 10)
	h := newMatchHandler(b)

	rec := invoke(t, h.DeleteMatch, http.MethodDelete, "", "impostor", matchParams(matchID))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = invoke(t, h.DeleteMatch, http.MethodDelete, "", "organizer", matchParams(matchID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := b.match(matchID)
	require.False(t, ok)
}
