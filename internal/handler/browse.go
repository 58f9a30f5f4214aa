// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to discover sports, venues, fields, bookable slots
// and public matches. Sensitive fields (private code hashes, emails) are
// filtered from responses.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
	"github.com/matchday-app/matchday-api/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	SportRepo       *repository.SportRepo
	LocationRepo    *repository.LocationRepo
	FieldRepo       *repository.FieldRepo
	ScheduleRepo    *repository.ScheduleRepo
	MatchRepo       *repository.MatchRepo
	ParticipantRepo *repository.ParticipantRepo
	Capacity        participation.Capacity
}

// PublicSport represents a sport in list responses.
type PublicSport struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PublicLocation represents a venue in list responses.
type PublicLocation struct {
	ID      int64  `json:"id"`
	SportID int64  `json:"sport_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PublicField represents a playing surface in list responses.
type PublicField struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PublicSchedule represents a bookable slot. IsAvailable is recomputed
// from the participant ledger on every read.
type PublicSchedule struct {
	ID          int64  `json:"id"`
	FieldID     int64  `json:"field_id"`
	Day         string `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsAvailable bool   `json:"is_available"`
}

// PublicMatch represents a match in list responses.
type PublicMatch struct {
	ID            int64     `json:"id"`
	ScheduleID    *int64    `json:"schedule_id,omitempty"`
	SportID       int64     `json:"sport_id"`
	LocationID    int64     `json:"location_id"`
	MatchDate     time.Time `json:"match_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	MaxPlayers    int       `json:"max_players"`
	LevelRequired string    `json:"level_required"`
	Gender        string    `json:"gender"`
	Price         int       `json:"price"`
	Status        string    `json:"status"`
	AcceptedCount int       `json:"accepted_count"`
	IsFull        bool      `json:"is_full"`
}

// PublicParticipant represents a roster entry.
type PublicParticipant struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Team      string `json:"team"`
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

// PublicMatchDetail is the single-match response. CanStart is recomputed
// from the roster on every read and never stored.
type PublicMatchDetail struct {
	PublicMatch
	Description  *string             `json:"description,omitempty"`
	Deadline     *time.Time          `json:"deadline,omitempty"`
	AutoValidate bool                `json:"auto_validate"`
	CanStart     bool                `json:"can_start"`
	Participants []PublicParticipant `json:"participants"`
}

// GetSports returns all sports. Response JSON contains an "items" array.
func (h *PublicHandler) GetSports(c echo.Context) error {
	ctx := c.Request().Context()
	sports, err := h.SportRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSport, 0, len(sports))
	for _, s := range sports {
		out = append(out, PublicSport{ID: s.ID, Name: s.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetLocations lists venues, optionally filtered by ?sport_id=.
func (h *PublicHandler) GetLocations(c echo.Context) error {
	ctx := c.Request().Context()
	var sportID int64
	if raw := c.QueryParam("sport_id"); raw != "" {
		var err error
		sportID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sport_id"})
		}
	}
	locations, err := h.LocationRepo.ListAll(ctx, sportID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicLocation, 0, len(locations))
	for _, l := range locations {
		out = append(out, PublicLocation{ID: l.ID, SportID: l.SportID, Name: l.Name, Address: l.Address})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetFieldsByLocation lists the fields of a venue.
func (h *PublicHandler) GetFieldsByLocation(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fields, err := h.FieldRepo.ListByLocation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicField, 0, len(fields))
	for _, f := range fields {
		out = append(out, PublicField{ID: f.ID, Name: f.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetSchedulesByField lists the bookable slots of a field with availability
// recomputed against the roster capacity.
func (h *PublicHandler) GetSchedulesByField(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	slots, err := h.ScheduleRepo.ListByField(ctx, id, h.Capacity.MaxPlayers)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSchedule, 0, len(slots))
	for _, s := range slots {
		out = append(out, PublicSchedule{
			ID: s.ID, FieldID: s.FieldID, Day: s.Day, Start: s.Start, End: s.End,
			IsAvailable: s.IsAvailable,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMatches lists public matches with their live accepted count, optionally
// filtered by ?sport_id= and ?location_id=.
func (h *PublicHandler) GetMatches(c echo.Context) error {
	ctx := c.Request().Context()
	var sportID, locationID int64
	var err error
	if raw := c.QueryParam("sport_id"); raw != "" {
		if sportID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sport_id"})
		}
	}
	if raw := c.QueryParam("location_id"); raw != "" {
		if locationID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location_id"})
		}
	}
	matches, err := h.MatchRepo.ListPublic(ctx, sportID, locationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicMatch, 0, len(matches))
	for _, m := range matches {
		accepted, err := h.ParticipantRepo.CountAccepted(ctx, m.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		out = append(out, publicMatch(m, accepted, h.Capacity))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMatch returns one match with its full roster, live accepted count and
// the recomputed can_start flag.
func (h *PublicHandler) GetMatch(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.MatchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	roster, err := h.ParticipantRepo.ListByMatch(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	accepted := 0
	acceptedRows := make([]model.MatchParticipant, 0, len(roster))
	participants := make([]PublicParticipant, 0, len(roster))
	for _, p := range roster {
		if p.Status == model.ParticipantAccepted {
			accepted++
			acceptedRows = append(acceptedRows, p.MatchParticipant)
		}
		participants = append(participants, PublicParticipant{
			ID: p.ID, UserID: p.UserID, UserName: p.UserName,
			Team: string(p.Team), Status: string(p.Status), Confirmed: p.Confirmed,
		})
	}
	resp := PublicMatchDetail{
		PublicMatch:  publicMatch(*m, accepted, h.Capacity),
		Description:  m.Description,
		Deadline:     m.Deadline,
		AutoValidate: m.AutoValidate,
		CanStart:     participation.CanStart(acceptedRows, h.Capacity),
		Participants: participants,
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMatchParticipants returns the roster of a match.
func (h *PublicHandler) GetMatchParticipants(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	roster, err := h.ParticipantRepo.ListByMatch(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicParticipant, 0, len(roster))
	for _, p := range roster {
		out = append(out, PublicParticipant{
			ID: p.ID, UserID: p.UserID, UserName: p.UserName,
			Team: string(p.Team), Status: string(p.Status), Confirmed: p.Confirmed,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func publicMatch(m model.Match, accepted int, cap participation.Capacity) PublicMatch {
	return PublicMatch{
		ID:            m.ID,
		ScheduleID:    m.ScheduleID,
		SportID:       m.SportID,
		LocationID:    m.LocationID,
		MatchDate:     m.MatchDate,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		MaxPlayers:    m.MaxPlayers,
		LevelRequired: m.LevelRequired,
		Gender:        m.Gender,
		Price:         m.Price,
		Status:        m.Status,
		AcceptedCount: accepted,
		IsFull:        accepted >= cap.MaxPlayers,
	}
}
