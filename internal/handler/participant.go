// This file defines handlers for the participant ledger: joining and
// leaving a match, confirming attendance, and the administrative status
// and removal endpoints. All capacity decisions happen inside the
// participation engine; these handlers only translate errors and publish
// the match.filled event after the filling join has committed.

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchday-app/matchday-api/internal/metrics"
	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
	"github.com/matchday-app/matchday-api/internal/queue"
	"github.com/matchday-app/matchday-api/internal/repository"
	"github.com/matchday-app/matchday-api/internal/utils"
)

// ParticipantHandler aggregates the dependencies of the participation
// endpoints. Publish is called after a join fills the roster; it is a
// field so tests can capture events without a broker.
type ParticipantHandler struct {
	Ledger  *participation.Service
	Matches MatchStore
	Metrics metrics.Metrics
	Publish func(ctx context.Context, ev queue.MatchFilledEvent) error
}

// joinRequest is the body of POST /v1/matches/:id/join.
type joinRequest struct {
	Team string `json:"team"`
	Code string `json:"code"` // access code for private matches
}

// participantResponse is the common shape for single ledger rows.
type participantResponse struct {
	ID        int64  `json:"id"`
	MatchID   int64  `json:"match_id"`
	UserID    string `json:"user_id"`
	Team      string `json:"team"`
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

func toParticipantResponse(p model.MatchParticipant) participantResponse {
	return participantResponse{
		ID: p.ID, MatchID: p.MatchID, UserID: p.UserID,
		Team: string(p.Team), Status: string(p.Status), Confirmed: p.Confirmed,
	}
}

// JoinMatch handles POST /v1/matches/:id/join. Joining is idempotent for
// the same user and re-joining with a different team switches teams. A
// full match or full team yields 409.
func (h *ParticipantHandler) JoinMatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	matchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	// Private matches require the organizer-shared access code. The code
	// check happens before the capacity transaction; the hash never changes
	// during a match's lifetime.
	m, err := h.Matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !m.IsPublic && m.PrivateCodeHash != nil {
		if !utils.VerifyMatchCode(*m.PrivateCodeHash, req.Code) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid access code"})
		}
	}

	res, err := h.Ledger.Join(ctx, matchID, userID, model.Team(req.Team))
	if err != nil {
		switch {
		case errors.Is(err, participation.ErrInvalidTeam):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "team must be PURPLE or YELLOW"})
		case errors.Is(err, participation.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, participation.ErrCapacityExceeded):
			h.Metrics.IncCapacityConflicts()
			return c.JSON(http.StatusConflict, echo.Map{"error": "match or team is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Metrics.IncJoins()

	if res.Filled {
		h.Metrics.IncMatchesFilled()
		h.publishFilled(res, userID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"participant":    toParticipantResponse(res.Participant),
		"accepted_count": res.AcceptedCount,
		"is_full":        res.Filled,
	})
}

// publishFilled emits the match.filled event in the background. The join
// has already committed; a publish failure is counted but never surfaces
// to the client.
func (h *ParticipantHandler) publishFilled(res participation.JoinResult, filledBy string) {
	if h.Publish == nil {
		return
	}
	ev := queue.MatchFilledEvent{
		MatchID:       res.Match.ID,
		ScheduleID:    res.Match.ScheduleID,
		SportID:       res.Match.SportID,
		LocationID:    res.Match.LocationID,
		MatchDate:     res.Match.MatchDate.Format(dayLayout),
		StartTime:     res.Match.StartTime,
		AcceptedCount: res.AcceptedCount,
		FilledBy:      filledBy,
		FilledAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Publish(ctx, ev); err != nil {
			h.Metrics.IncEventsPublishFailed()
		}
	}()
}

// LeaveMatch handles DELETE /v1/matches/:id/join. Leaving always frees
// capacity; a caller with no row gets 404.
func (h *ParticipantHandler) LeaveMatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	matchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Ledger.Leave(ctx, matchID, userID); err != nil {
		if errors.Is(err, participation.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Metrics.IncLeaves()
	return c.NoContent(http.StatusNoContent)
}

// ConfirmAttendance handles POST /v1/matches/:id/confirm. Confirmation is
// a pure readiness signal; it never affects capacity.
func (h *ParticipantHandler) ConfirmAttendance(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	matchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Ledger.Confirm(ctx, matchID, userID)
	if err != nil {
		if errors.Is(err, participation.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toParticipantResponse(p))
}

// updateParticipantRequest is the body of PATCH /v1/participants/:id.
type updateParticipantRequest struct {
	Status string `json:"status"`
}

// UpdateParticipantStatus handles PATCH /v1/participants/:id (admin).
// Moving a row in or out of ACCEPTED re-runs the availability
// synchronization of the match's slot.
func (h *ParticipantHandler) UpdateParticipantStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateParticipantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := h.Ledger.UpdateStatus(ctx, id, model.ParticipantStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, participation.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING, ACCEPTED or REJECTED"})
		case errors.Is(err, participation.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		case errors.Is(err, participation.ErrCapacityExceeded):
			h.Metrics.IncCapacityConflicts()
			return c.JSON(http.StatusConflict, echo.Map{"error": "match or team is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toParticipantResponse(p))
}

// RemoveParticipant handles DELETE /v1/participants/:id (admin).
func (h *ParticipantHandler) RemoveParticipant(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Ledger.Remove(ctx, id); err != nil {
		if errors.Is(err, participation.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
