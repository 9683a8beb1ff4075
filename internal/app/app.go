package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/overtimehq/overtime-api/internal/config"
	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
	"github.com/overtimehq/overtime-api/internal/domain/match"
	"github.com/overtimehq/overtime-api/internal/domain/matchset"
	"github.com/overtimehq/overtime-api/internal/domain/roster"
	"github.com/overtimehq/overtime-api/internal/domain/stats"
	"github.com/overtimehq/overtime-api/internal/infrastructure/account/sentinel"
	"github.com/overtimehq/overtime-api/internal/infrastructure/notify"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/postgres"
	"github.com/overtimehq/overtime-api/internal/interfaces/httpapi"
	"github.com/overtimehq/overtime-api/internal/platform/cache"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
	"github.com/overtimehq/overtime-api/internal/platform/resilience"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

type repositories struct {
	matches     match.Repository
	sets        matchset.Repository
	roster      roster.Repository
	setLines    stats.SetLineRepository
	matchLines  stats.MatchLineRepository
	aggregates  stats.TeamAggregateRepository
	editRequest editrequest.Repository
}

// Application bundles the HTTP server with the resources it owns.
type Application struct {
	Server *http.Server
	db     *sqlx.DB
}

// Close releases resources held by the application, currently the database
// pool when postgres storage is active.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &Application{}
	repos, err := buildRepositories(cfg, app, logger)
	if err != nil {
		return nil, err
	}

	idGen := idgen.NewRandomGenerator()

	matchSvc := usecase.NewMatchService(repos.matches, idGen, logger)
	setSvc := usecase.NewSetService(matchSvc, repos.sets, repos.setLines, idGen, logger)
	rosterSvc := usecase.NewRosterService(matchSvc, repos.roster, idGen, logger)
	setStatsSvc := usecase.NewSetStatsService(setSvc, repos.roster, repos.setLines, idGen, logger)
	matchStatsSvc := usecase.NewMatchStatsService(
		matchSvc,
		repos.roster,
		repos.setLines,
		repos.matchLines,
		repos.aggregates,
		idGen,
		logger,
	)
	recalcSvc := usecase.NewRecalcService(matchSvc, matchStatsSvc, logger)

	var notifier usecase.DecisionNotifier
	if cfg.WebhookEnabled {
		notifier = notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			EndpointURL: cfg.WebhookEndpointURL,
			Secret:      cfg.WebhookSecret,
			Retries:     cfg.WebhookRetries,
			Timeout:     cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	var countCache *cache.Store
	if cfg.CacheEnabled {
		countCache = cache.NewStore(cfg.CacheTTL)
	}
	editRequestSvc := usecase.NewEditRequestService(repos.editRequest, notifier, countCache, idGen, logger)

	sentinelClient := sentinel.NewClient(
		&http.Client{Timeout: cfg.SentinelTimeout},
		sentinel.Config{
			BaseURL:        cfg.SentinelBaseURL,
			IntrospectPath: cfg.SentinelIntrospectPath,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SentinelCircuitEnabled,
				FailureThreshold: cfg.SentinelCircuitFailureCount,
				OpenTimeout:      cfg.SentinelCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SentinelCircuitHalfOpenMaxReq,
			},
		},
		logger,
	)

	handler := httpapi.NewHandler(
		matchSvc,
		setSvc,
		rosterSvc,
		setStatsSvc,
		matchStatsSvc,
		recalcSvc,
		editRequestSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, sentinelClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if app.Server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return app, nil
}

func buildRepositories(cfg config.Config, app *Application, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := connectDB(cfg)
		if err != nil {
			return repositories{}, fmt.Errorf("connect database: %w", err)
		}
		app.db = db
		logger.Info("storage ready", "driver", cfg.StorageDriver, "database", dbNameFromURL(cfg.DBURL))

		return repositories{
			matches:     postgres.NewMatchRepository(db),
			sets:        postgres.NewSetRepository(db),
			roster:      postgres.NewRosterRepository(db),
			setLines:    postgres.NewSetLineRepository(db),
			matchLines:  postgres.NewMatchLineRepository(db),
			aggregates:  postgres.NewTeamAggregateRepository(db),
			editRequest: postgres.NewEditRequestRepository(db),
		}, nil
	default:
		logger.Info("storage ready", "driver", cfg.StorageDriver)

		return repositories{
			matches:     memory.NewMatchRepository(memory.SeedMatches()),
			sets:        memory.NewSetRepository(memory.SeedSets()),
			roster:      memory.NewRosterRepository(memory.SeedRosterEntries()),
			setLines:    memory.NewSetLineRepository(nil),
			matchLines:  memory.NewMatchLineRepository(nil),
			aggregates:  memory.NewTeamAggregateRepository(),
			editRequest: memory.NewEditRequestRepository(nil),
		}, nil
	}
}
