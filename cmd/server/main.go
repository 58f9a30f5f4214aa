package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/matchday-app/matchday-api/internal/config"
	"github.com/matchday-app/matchday-api/internal/database"
	"github.com/matchday-app/matchday-api/internal/handler"
	"github.com/matchday-app/matchday-api/internal/metrics"
	"github.com/matchday-app/matchday-api/internal/middleware"
	"github.com/matchday-app/matchday-api/internal/participation"
	"github.com/matchday-app/matchday-api/internal/queue"
	"github.com/matchday-app/matchday-api/internal/repository"
	"github.com/matchday-app/matchday-api/internal/router"
	queue_publisher "github.com/matchday-app/matchday-api/internal/service"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Apply the embedded schema; every statement is idempotent.
	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	capacity := participation.Capacity{
		MaxPlayers: cfg.MatchMaxPlayers,
		TeamSize:   cfg.MatchTeamSize,
	}
	ledger := participation.NewService(repository.NewParticipationStore(db), capacity)

	m := metrics.NewService()

	publicHandler := &handler.PublicHandler{
		SportRepo:       repository.NewSportRepo(db),
		LocationRepo:    repository.NewLocationRepo(db),
		FieldRepo:       repository.NewFieldRepo(db),
		ScheduleRepo:    repository.NewScheduleRepo(db),
		MatchRepo:       repository.NewMatchRepo(db, capacity),
		ParticipantRepo: repository.NewParticipantRepo(db),
		Capacity:        capacity,
	}
	matchHandler := &handler.MatchHandler{
		Matches:    repository.NewMatchRepo(db, capacity),
		Ledger:     ledger,
		Metrics:    m,
		BcryptCost: cfg.BcryptCost,
	}
	participantHandler := &handler.ParticipantHandler{
		Ledger:  ledger,
		Matches: repository.NewMatchRepo(db, capacity),
		Metrics: m,
		Publish: queue_publisher.PublishMatchFilled,
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	// Redis-backed response cache and rate limiting. A nil client disables
	// both and the API keeps serving.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	} else {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	router.RegisterRoutes(e, metrics.NewMetricsHandler())
	router.RegisterPublic(e, publicHandler)
	router.RegisterMatchday(e, matchHandler, participantHandler, cfg.JWTSecret)

	// Background consumer appending match.filled events to logs/matchday.log.
	go func() {
		if err := queue.StartMatchFilledConsumer(); err != nil {
			log.Printf("match-filled-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
