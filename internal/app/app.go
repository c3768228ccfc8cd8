package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/arenaops/matchdesk/internal/config"
	"github.com/arenaops/matchdesk/internal/domain/fixture"
	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	"github.com/arenaops/matchdesk/internal/domain/moderator"
	"github.com/arenaops/matchdesk/internal/domain/sport"
	"github.com/arenaops/matchdesk/internal/infrastructure/account/portalauth"
	"github.com/arenaops/matchdesk/internal/infrastructure/notify"
	"github.com/arenaops/matchdesk/internal/infrastructure/repository/memory"
	"github.com/arenaops/matchdesk/internal/infrastructure/repository/postgres"
	"github.com/arenaops/matchdesk/internal/interfaces/httpapi"
	"github.com/arenaops/matchdesk/internal/platform/logging"
	"github.com/arenaops/matchdesk/internal/usecase"
)

// NewHTTPServer wires the whole service and returns the server plus a
// shutdown func that drains the audit dispatcher and closes external
// connections in reverse wiring order.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	zlog := logging.NewJSON(cfg.LogLevel)

	caps := fixture.Capabilities{
		HasVersion:   cfg.FixtureHasVersion,
		HasUpdatedBy: cfg.FixtureHasUpdatedBy,
	}

	var (
		fixtures    fixture.Repository
		events      matchevent.Repository
		assignments moderator.Repository
		cleanups    []func(context.Context) error
	)

	if cfg.DBURL != "" {
		db, err := otelsqlx.Connect("postgres", cfg.DBURL,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		cleanups = append(cleanups, func(context.Context) error { return db.Close() })

		fixtures = postgres.NewFixtureRepository(db, caps)
		events = postgres.NewMatchEventRepository(db)
		assignments = postgres.NewAssignmentRepository(db)
	} else {
		logger.Info("DB_URL not set; running on the seeded in-memory store")
		fixtureRepo := memory.NewFixtureRepository()
		assignmentRepo := memory.NewAssignmentRepository()
		memory.Seed(fixtureRepo, assignmentRepo)

		fixtures = fixtureRepo
		events = memory.NewMatchEventRepository()
		assignments = assignmentRepo
	}

	dispatcher, err := usecase.NewAuditDispatcher(cfg.AuditWorkerCount, events, zlog)
	if err != nil {
		return nil, nil, fmt.Errorf("build audit dispatcher: %w", err)
	}
	cleanups = append(cleanups, func(context.Context) error {
		dispatcher.Close()
		return nil
	})

	if cfg.AMQPEnabled {
		publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, fmt.Errorf("build amqp publisher: %w", err)
		}
		dispatcher.SetBroadcaster(publisher)
		cleanups = append(cleanups, func(context.Context) error { return publisher.Close() })
	}

	registry := sport.NewRegistry(sport.NewCricketStrategy())

	updateService := usecase.NewMatchUpdateService(fixtures, assignments, registry, caps, dispatcher, zlog)
	queryService := usecase.NewFixtureQueryService(fixtures, events)

	accountClient := portalauth.NewClient(&http.Client{}, portalauth.Config{
		BaseURL:          cfg.AccountBaseURL,
		IntrospectPath:   cfg.AccountIntrospectPath,
		Timeout:          cfg.AccountTimeout,
		FailureThreshold: cfg.AccountCircuitFailureCount,
		OpenTimeout:      cfg.AccountCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
	}, logger)

	handler := httpapi.NewHandler(updateService, queryService, logger)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	shutdown := func(ctx context.Context) error {
		var firstErr error
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		_ = zlog.Sync()
		return firstErr
	}

	return server, shutdown, nil
}
