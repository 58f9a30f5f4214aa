// This file defines handlers for organizing matches: creating a match
// from a bookable slot (idempotent), creating a manually organized match,
// and editing or cancelling a match as its organizer.

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
	"github.com/matchday-app/matchday-api/internal/repository"
	"github.com/matchday-app/matchday-api/internal/utils"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

// MatchStore is the persistence surface the organizer endpoints need.
// *repository.MatchRepo satisfies it; tests substitute an in-memory fake.
type MatchStore interface {
	Create(ctx context.Context, m *model.Match) error
	GetByID(ctx context.Context, id int64) (*model.Match, error)
	UpdateByIDAndCreator(ctx context.Context, m *model.Match, creatorID string) error
	DeleteByIDAndCreator(ctx context.Context, id int64, creatorID string) error
}

// MatchHandler aggregates the dependencies of the organizer endpoints.
type MatchHandler struct {
	Matches    MatchStore
	Ledger     *participation.Service
	Metrics    metrics.Metrics
	BcryptCost int
}

// authedUserID pulls the user id injected by the JWT middleware. An empty
// value means the route was wired without the middleware; treat it as
// unauthenticated rather than panicking.
func authedUserID(c echo.Context) string {
	v, _ := c.Get("user_id").(string)
	return v
}

// EnsureMatchForSchedule handles POST /v1/schedules/:id/match. It returns
// the single match bound to the slot, creating it on first call. Repeated
// and concurrent calls all converge on the same match.
func (h *MatchHandler) EnsureMatchForSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	scheduleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ref, err := h.Ledger.EnsureMatchForSchedule(ctx, scheduleID, userID)
	if err != nil {
		switch {
		case errors.Is(err, participation.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		case errors.Is(err, participation.ErrInvalidSchedule):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "schedule day is not a valid date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Metrics.IncMatchesEnsured()
	return c.JSON(http.StatusOK, ref)
}

// createMatchRequest is the body of POST /v1/matches. Optional fields fall
// back to the platform defaults.
type createMatchRequest struct {
	SportID       int64   `json:"sport_id"`
	LocationID    int64   `json:"location_id"`
	MatchDate     string  `json:"match_date"` // YYYY-MM-DD
	StartTime     string  `json:"start_time"` // HH:MM
	EndTime       string  `json:"end_time"`   // HH:MM
	LevelRequired string  `json:"level_required"`
	Gender        string  `json:"gender"`
	Price         int     `json:"price"`
	IsPublic      *bool   `json:"is_public"`
	PrivateCode   string  `json:"private_code"`
	AutoValidate  *bool   `json:"auto_validate"`
	Deadline      *string `json:"deadline"` // RFC3339
	Description   *string `json:"description"`
}

var validLevels = map[string]bool{
	model.LevelBeginner: true, model.LevelIntermediate: true,
	model.LevelAdvanced: true, model.LevelPro: true,
}

var validGenders = map[string]bool{
	model.GenderMixed: true, model.GenderMen: true, model.GenderWomen: true,
}

// CreateMatch handles POST /v1/matches for manually organized matches
// (no slot binding). The date is validated strictly; a malformed date is
// rejected with 422 instead of being silently replaced.
func (h *MatchHandler) CreateMatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req createMatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SportID == 0 || req.LocationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sport_id and location_id are required"})
	}
	matchDate, err := time.Parse(dayLayout, req.MatchDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "match_date is not a valid date"})
	}
	if _, err := time.Parse(timeLayout, req.StartTime); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start_time is not a valid time"})
	}
	if _, err := time.Parse(timeLayout, req.EndTime); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_time is not a valid time"})
	}
	level := req.LevelRequired
	if level == "" {
		level = model.LevelBeginner
	}
	if !validLevels[level] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level_required"})
	}
	gender := req.Gender
	if gender == "" {
		gender = model.GenderMixed
	}
	if !validGenders[gender] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gender"})
	}

	m := model.Match{
		CreatorID:     userID,
		SportID:       req.SportID,
		LocationID:    req.LocationID,
		MatchDate:     matchDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		MaxPlayers:    h.Ledger.Capacity().MaxPlayers,
		LevelRequired: level,
		Gender:        gender,
		Price:         req.Price,
		IsPublic:      true,
		AutoValidate:  true,
		Description:   req.Description,
		Status:        model.MatchOpen,
	}
	if req.IsPublic != nil {
		m.IsPublic = *req.IsPublic
	}
	if req.AutoValidate != nil {
		m.AutoValidate = *req.AutoValidate
	}
	if req.Deadline != nil {
		d, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "deadline is not a valid timestamp"})
		}
		m.Deadline = &d
	}
	// A private match requires an access code; only the bcrypt hash is stored.
	if !m.IsPublic {
		if req.PrivateCode == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "private_code is required for private matches"})
		}
		hash, err := utils.HashMatchCode(req.PrivateCode, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hashing error"})
		}
		m.PrivateCodeHash = &hash
	}

	if err := h.Matches.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// updateMatchRequest is the body of PATCH /v1/matches/:id. Only provided
// fields are changed.
type updateMatchRequest struct {
	LevelRequired *string `json:"level_required"`
	Gender        *string `json:"gender"`
	Price         *int    `json:"price"`
	IsPublic      *bool   `json:"is_public"`
	Deadline      *string `json:"deadline"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
}

var validStatuses = map[string]bool{
	model.MatchOpen: true, model.MatchAlmostFull: true,
	model.MatchFull: true, model.MatchCancelled: true,
}

// UpdateMatch handles PATCH /v1/matches/:id. Only the organizer may edit;
// capacity and the slot binding are never editable through this endpoint.
func (h *MatchHandler) UpdateMatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateMatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := h.Matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.LevelRequired != nil {
		if !validLevels[*req.LevelRequired] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level_required"})
		}
		m.LevelRequired = *req.LevelRequired
	}
	if req.Gender != nil {
		if !validGenders[*req.Gender] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gender"})
		}
		m.Gender = *req.Gender
	}
	if req.Price != nil {
		m.Price = *req.Price
	}
	if req.IsPublic != nil {
		m.IsPublic = *req.IsPublic
	}
	if req.Deadline != nil {
		d, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "deadline is not a valid timestamp"})
		}
		m.Deadline = &d
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		m.Status = *req.Status
	}
	if err := h.Matches.UpdateByIDAndCreator(ctx, m, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": m.ID, "status": m.Status})
}

// DeleteMatch handles DELETE /v1/matches/:id. Only the organizer may
// delete; the participant ledger rows are removed and the bound slot is
// freed in the same transaction.
func (h *MatchHandler) DeleteMatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authedUserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Matches.DeleteByIDAndCreator(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
