package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CodAressss/orders-batch-service/internal/adapters/auth"
	httpin "github.com/CodAressss/orders-batch-service/internal/adapters/http/in"
	"github.com/CodAressss/orders-batch-service/internal/adapters/mongodb"
	"github.com/CodAressss/orders-batch-service/internal/adapters/rabbitmq"
	"github.com/CodAressss/orders-batch-service/internal/adapters/redis"
	pgbatchload "github.com/CodAressss/orders-batch-service/internal/adapters/postgres/batchload"
	pgcatalog "github.com/CodAressss/orders-batch-service/internal/adapters/postgres/catalog"
	pgorder "github.com/CodAressss/orders-batch-service/internal/adapters/postgres/order"
	bootstraphttp "github.com/CodAressss/orders-batch-service/internal/bootstrap/http"
	"github.com/CodAressss/orders-batch-service/internal/services/command"
	"github.com/CodAressss/orders-batch-service/pkg/mlog"
	"github.com/CodAressss/orders-batch-service/pkg/mpostgres"
	"github.com/CodAressss/orders-batch-service/pkg/mtelemetry"
)

// Service is the explicit dependency container DESIGN.md's "global
// mutable state" Design Note replaces the teacher's Spring-style
// application context with: every adapter is constructed here, once,
// and passed by value into whatever needs it.
type Service struct {
	cfg       *Config
	logger    mlog.Logger
	telemetry *mtelemetry.Telemetry
	app       *fiber.App
	rabbit    *rabbitmq.Connection
}

// New wires every adapter named in SPEC_FULL.md's component table into
// a running Service: Postgres (primary/replica + migrations), Redis,
// RabbitMQ, Mongo, the JWT authenticator, the orchestrator, and finally
// the HTTP router.
func New(cfg *Config, logger mlog.Logger, telemetry *mtelemetry.Telemetry) (*Service, error) {
	pg := &mpostgres.Connection{
		PrimaryDSN:     cfg.PrimaryDBDSN,
		ReplicaDSN:     cfg.ReplicaDBDSN,
		PrimaryDBName:  cfg.PrimaryDBName,
		MigrationsPath: cfg.MigrationsPath,
	}

	db, err := pg.DB()
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	batchLoadStore := pgbatchload.New(db)
	catalogReader := pgcatalog.New(db)
	orderWriter := pgorder.New(db)

	redisConn := &redis.Connection{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	cache := redis.New(redisConn)

	useCase := &command.LoadOrders{
		Store:      batchLoadStore,
		Catalog:    catalogReader,
		Writer:     orderWriter,
		Transactor: db,
		Cache:      cache,
	}

	authenticator := auth.NewVerifier(cfg.JWTSecret)

	rabbitConn := &rabbitmq.Connection{URL: cfg.RabbitMQURL}
	publisher := rabbitmq.NewPublisher(rabbitConn)

	mongoConn := &mongodb.Connection{URI: cfg.MongoURI}
	metadata := mongodb.New(mongoConn)

	handler := &httpin.BatchHandler{
		UseCase:       useCase,
		Authenticator: authenticator,
		Store:         batchLoadStore,
		Metadata:      metadata,
		OnAfterLoad: func(summary command.Summary, idempotencyKey, fileDigest, filename, contentType string) {
			runSideEffects(logger, publisher, metadata, summary, filename, contentType)
		},
	}

	httpin.Version = cfg.ServiceVersion

	app := bootstraphttp.NewRouter(logger, handler)

	return &Service{cfg: cfg, logger: logger, telemetry: telemetry, app: app, rabbit: rabbitConn}, nil
}

// runSideEffects fires the RabbitMQ/Mongo side channels after a batch
// load completes (the Redis cache is consulted/forgotten by Execute
// itself, not here). Every failure is logged and swallowed — these
// effects never influence the already-returned HTTP response
// (SPEC_FULL.md §4.O-Q Open Question).
func runSideEffects(
	logger mlog.Logger,
	publisher *rabbitmq.Publisher,
	metadata *mongodb.Repository,
	summary command.Summary,
	filename, contentType string,
) {
	ctx := context.Background()

	event := rabbitmq.Event{
		BatchLoadID:    summary.BatchLoadID,
		Status:         "completed",
		TotalProcessed: summary.TotalProcessed,
		StoredCount:    summary.StoredCount,
		ErrorCount:     summary.ErrorCount,
	}

	if err := publisher.Publish(ctx, event.Status, event); err != nil {
		logger.Warnf("rabbitmq event publish failed for batch %s: %v", summary.BatchLoadID, err)
	}

	meta := mongodb.Metadata{
		BatchLoadID: summary.BatchLoadID,
		Filename:    filename,
		ContentType: contentType,
		RecordedAt:  time.Now().UTC(),
	}
	if err := metadata.Put(ctx, meta); err != nil {
		logger.Warnf("mongo metadata write failed for batch %s: %v", summary.BatchLoadID, err)
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Service) Run() error {
	return s.app.Listen(s.cfg.ServerAddress)
}

// Shutdown gracefully stops the HTTP server and flushes telemetry.
func (s *Service) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return err
	}

	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(ctx); err != nil {
			return err
		}
	}

	return s.logger.Sync()
}
