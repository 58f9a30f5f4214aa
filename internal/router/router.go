package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/matchday-app/matchday-api/internal/handler"    // import the handlers that implement business logic
	"github.com/matchday-app/matchday-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers the operational endpoints on the provided Echo
// instance: the health check used by load balancers and the Prometheus
// scrape endpoint.
func RegisterRoutes(e *echo.Echo, metricsHandler http.Handler) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance. The PublicHandler exposes sanitized data for sports,
// venues, fields, slots and public matches. These routes do not apply any
// JWT or role middleware and are intended for guest users.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Catalog browsing
	e.GET("/v1/sports", p.GetSports)
	e.GET("/v1/locations", p.GetLocations)
	e.GET("/v1/locations/:id/fields", p.GetFieldsByLocation)
	// Slot listing with availability recomputed from the participant ledger
	e.GET("/v1/fields/:id/schedules", p.GetSchedulesByField)
	// Match browsing; can_start on the detail endpoint is recomputed per read
	e.GET("/v1/matches", p.GetMatches)
	e.GET("/v1/matches/:id", p.GetMatch)
	e.GET("/v1/matches/:id/participants", p.GetMatchParticipants)
}

// RegisterMatchday registers the authenticated endpoints under /v1. All
// routes require a valid JWT; the administrative participant endpoints
// additionally require the ADMIN role.
func RegisterMatchday(e *echo.Echo, m *handler.MatchHandler, pt *handler.ParticipantHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
	)

	// ---- Match lifecycle ----
	g.POST("/schedules/:id/match", m.EnsureMatchForSchedule) // idempotent slot binding
	g.POST("/matches", m.CreateMatch)
	g.PATCH("/matches/:id", m.UpdateMatch)
	g.DELETE("/matches/:id", m.DeleteMatch)

	// ---- Participation ----
	g.POST("/matches/:id/join", pt.JoinMatch)
	g.DELETE("/matches/:id/join", pt.LeaveMatch)
	g.POST("/matches/:id/confirm", pt.ConfirmAttendance)

	// ---- Administrative ledger management ----
	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.PATCH("/participants/:id", pt.UpdateParticipantStatus)
	admin.DELETE("/participants/:id", pt.RemoveParticipant)
}
