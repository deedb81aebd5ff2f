package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"concrete-dispatch-service/internal/adapters/cache"
	"concrete-dispatch-service/internal/adapters/distance"
	"concrete-dispatch-service/internal/adapters/gcal"
	"concrete-dispatch-service/internal/adapters/repositories"
	"concrete-dispatch-service/internal/api"
	"concrete-dispatch-service/internal/config"
	"concrete-dispatch-service/internal/platform/db"
	"concrete-dispatch-service/internal/ports"
	"concrete-dispatch-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (SQLite, Redis/Postgres caches, ORS, Google Calendar) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("DISPATCH_CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	orsKey := config.Get("ORS_API_KEY", cfg.ORS.APIKey)
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal().Msg("ORS_API_KEY is required")
	}

	sqlite, err := openDB(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer sqlite.Close()

	if err := repositories.InitSchema(sqlite); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	routeCache, closeCache, err := buildRouteCache(cfg, sqlite)
	if err != nil {
		log.Fatal().Err(err).Msg("build route cache")
	}
	if closeCache != nil {
		defer closeCache()
	}

	provider, err := distance.NewORSTravelProvider(orsKey)
	if err != nil {
		log.Fatal().Err(err).Msg("build travel provider")
	}

	svc := &services.ScheduleService{
		Bookings: repositories.NewSqliteBookingStore(sqlite),
		Calendar: repositories.NewSqliteCalendarStore(sqlite),
		Settings: repositories.NewSqliteSettingsStore(sqlite),
		Provider: provider,
		Cache:    routeCache,
	}

	if cfg.Google.CredentialsPath != "" {
		svc.Sync = buildCalendarSync(cfg, svc.Settings)
	}

	router := api.NewRouter(svc, cfg.Monitoring.PrometheusEnabled)

	// Timeouts are tuned for cold-cache synthesis (external API latency).
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}

func openDB(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}

// buildRouteCache prefers Redis, then shared Postgres, then the embedded
// SQLite file.
func buildRouteCache(cfg *config.Config, sqlite *sql.DB) (ports.RouteCache, func(), error) {
	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("route cache: verify redis connection: %w", err)
		}
		return cache.NewRedisRouteCache(client, 0), func() { _ = client.Close() }, nil
	}

	if cfg.Database.URL != "" {
		pg, err := db.Open(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("route cache: %w", err)
		}
		return cache.NewSQLRouteCache(pg), func() { _ = pg.Close() }, nil
	}

	return cache.NewSqliteRouteCache(sqlite), nil, nil
}

func buildCalendarSync(cfg *config.Config, settings ports.SettingsStore) ports.CalendarSync {
	ctx := context.Background()

	sys, err := settings.Read(ctx)
	if err != nil || sys.CalendarID == "" {
		log.Warn().Err(err).Msg("calendar sync disabled: no calendar id configured")
		return nil
	}

	creds, err := os.ReadFile(cfg.Google.CredentialsPath)
	if err != nil {
		log.Warn().Err(err).Msg("calendar sync disabled: cannot read credentials")
		return nil
	}

	sync, err := gcal.New(ctx, creds, sys.CalendarID)
	if err != nil {
		log.Warn().Err(err).Msg("calendar sync disabled")
		return nil
	}

	log.Info().Str("calendar_id", sys.CalendarID).Msg("calendar sync enabled")
	return sync
}
