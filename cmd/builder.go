package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"ordercore/api"
	"ordercore/api/health"
	apiorder "ordercore/api/order"
	"ordercore/config"
	"ordercore/domain/order"
	"ordercore/domain/pricing"
	"ordercore/infrastructure/persistence/mysql"
	"ordercore/journal"
	"ordercore/journal/memory"
	"ordercore/journal/relational"
	"ordercore/journal/retry"
	"ordercore/journal/widecolumn"
	"ordercore/pkg/logger"
	"ordercore/service"

	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

// AppBuilder assembles an App from configuration: it selects and
// connects the journal backend, wires the pricing/payment
// collaborators, builds the command service, and registers the HTTP
// controllers in front of it.
type AppBuilder struct {
	cfg *config.Config
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

func (b *AppBuilder) Build() (*App, error) {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("journal_backend", b.cfg.Journal.Backend))

	orderJournal, pinger, closer, err := b.buildJournal()
	if err != nil {
		return nil, err
	}

	commandService := service.NewCommandService(
		orderJournal,
		pricing.LocalShippingCalculator{},
		pricing.LocalTaxCalculator{},
		pricing.LocalPaymentProcessor{},
		logger.Get(),
	)

	healthController := health.NewController(b.cfg, pinger)
	orderController := apiorder.NewController(commandService)

	router := api.NewRouter(b.cfg, healthController, orderController)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		router: router,
		server: server,
		closer: closer,
	}, nil
}

// buildJournal constructs the journal.Journal[order.OrderEvent] named
// by cfg.Journal.Backend, along with an optional readiness pinger and
// an optional shutdown closer.
func (b *AppBuilder) buildJournal() (journal.Journal[order.OrderEvent], health.Pinger, func() error, error) {
	retryCfg := toRetryConfig(b.cfg.Journal.Retry)

	switch b.cfg.Journal.Backend {
	case "relational":
		db, err := mysql.Connect(b.cfg.Journal.Relational)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect relational journal: %w", err)
		}

		j := relational.New[order.OrderEvent](db, order.EventCodec{}, retryCfg)
		if err := j.AutoMigrate(context.Background()); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to migrate relational journal schema: %w", err)
		}

		closer := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return j, j, closer, nil

	case "widecolumn":
		cluster := gocql.NewCluster(b.cfg.Journal.WideColumn.Hosts...)
		cluster.Keyspace = b.cfg.Journal.WideColumn.Keyspace
		cluster.Consistency = gocql.Quorum
		session, err := cluster.CreateSession()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect wide-column journal: %w", err)
		}

		j := widecolumn.New[order.OrderEvent](session, b.cfg.Journal.WideColumn.Table, order.EventCodec{}, retryCfg)
		if err := j.CreateTable(context.Background()); err != nil {
			session.Close()
			return nil, nil, nil, fmt.Errorf("failed to create wide-column journal table: %w", err)
		}

		closer := func() error {
			session.Close()
			return nil
		}
		return j, j, closer, nil

	case "memory", "":
		j := memory.New[order.OrderEvent]()
		return j, nil, nil, nil

	default:
		fmt.Fprintf(os.Stderr, "unknown journal backend %q, falling back to memory\n", b.cfg.Journal.Backend)
		j := memory.New[order.OrderEvent]()
		return j, nil, nil, nil
	}
}

func toRetryConfig(cfg config.RetryConfig) retry.Config {
	return retry.Config{
		Enabled:         cfg.Enabled,
		MaxAttempts:     cfg.MaxAttempts,
		InitialDelay:    durationOr(cfg.InitialDelay, 100*time.Millisecond),
		MaxDelay:        durationOr(cfg.MaxDelay, 2*time.Second),
		BackoffFactor:   floatOr(cfg.BackoffFactor, 2.0),
		JitterEnabled:   cfg.JitterEnabled,
		RetryOnDeadlock: cfg.RetryOnDeadlock,
		RetryOnTimeout:  cfg.RetryOnTimeout,
	}
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func floatOr(f, fallback float64) float64 {
	if f <= 0 {
		return fallback
	}
	return f
}
