package internal

import (
	"catalog-import-service/internal/adapters/filestore"
	"catalog-import-service/internal/adapters/identity"
	"catalog-import-service/internal/adapters/locker"
	logger_adapter "catalog-import-service/internal/adapters/logger"
	postgres_adapter "catalog-import-service/internal/adapters/postgres"
	rabbitmq_adapter "catalog-import-service/internal/adapters/rabbitmq"
	"catalog-import-service/internal/adapters/yandexfeed"
	"catalog-import-service/internal/configs"
	"catalog-import-service/internal/constants"
	"catalog-import-service/internal/core/port"
	"catalog-import-service/internal/core/usecase"
	fluentlogger "catalog-import-service/pkg/fluent_logger"
	"catalog-import-service/pkg/postgres"
	"catalog-import-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-import-service/pkg/rabbitmq/rabbitmq_producer"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Core - исходящие адаптеры и use case'ы, общие для HTTP-сервиса и CLI
type Core struct {
	ImportFeed     *usecase.ImportFeedUseCase
	PreviewFeed    *usecase.PreviewFeedUseCase
	PurgeCatalog   *usecase.PurgeCatalogUseCase
	CatalogSummary *usecase.GetCatalogSummaryUseCase

	logger  port.LoggerPort
	closers []func() error
}

// NewLogger собирает консольный логгер (в out) и, если включен, Fluent Bit.
// Возвращаемая функция закрывает fluent-клиент.
func NewLogger(cfg *configs.AppConfig, out io.Writer) (port.LoggerPort, func(), error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   out,
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.IsJSON,
		UseColor: !cfg.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	closeFn := func() {}
	if cfg.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
		closeFn = func() {
			if err := fluentClient.Close(); err != nil {
				// fluent в этот момент может быть уже недоступен
				fmt.Fprintf(os.Stderr, "ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, closeFn, nil
}

// NewCore подключает хранилище каталога, блокировки и отчеты по конфигурации
func NewCore(ctx context.Context, cfg *configs.AppConfig, baseLogger port.LoggerPort) (core *Core, err error) {
	core = &Core{logger: baseLogger.WithFields(port.Fields{"component": "bootstrap"})}
	defer func() {
		if err != nil {
			core.Close()
			core = nil
		}
	}()

	store, err := core.catalogStore(ctx, cfg)
	if err != nil {
		return core, err
	}
	sourceLocker, err := core.sourceLocker(ctx, cfg)
	if err != nil {
		return core, err
	}
	reporter, err := core.importReporter(cfg, baseLogger)
	if err != nil {
		return core, err
	}
	core.logger.Info("All outgoing adapters initialized.", nil)

	ids := identity.NewGenerator()
	normalizer := yandexfeed.NewNormalizer()

	var reporterPort port.ImportReporterPort
	if reporter != nil {
		reporterPort = reporter
	}
	core.ImportFeed = usecase.NewImportFeedUseCase(store, sourceLocker, normalizer, ids, reporterPort)
	core.PreviewFeed = usecase.NewPreviewFeedUseCase(normalizer, ids)
	core.PurgeCatalog = usecase.NewPurgeCatalogUseCase(store)
	core.CatalogSummary = usecase.NewGetCatalogSummaryUseCase(store)
	core.logger.Info("All use cases initialized.", nil)

	return core, nil
}

func (c *Core) catalogStore(ctx context.Context, cfg *configs.AppConfig) (port.CatalogStorePort, error) {
	switch cfg.Catalog.Backend {
	case configs.BackendPostgres:
		dbPool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL: cfg.Postgres.DatabaseURL,
			MaxConns:    cfg.Postgres.MaxConns,
		})
		if err != nil {
			c.logger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, func() error {
			dbPool.Close()
			c.logger.Info("PostgreSQL pool closed.", nil)
			return nil
		})

		store, err := postgres_adapter.NewCatalogStore(dbPool)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres catalog store: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare catalog table: %w", err)
		}
		c.logger.Info("Postgres catalog store initialized.", nil)
		return store, nil

	case configs.BackendFile:
		store, err := filestore.NewStore(cfg.Catalog.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create file catalog store: %w", err)
		}
		c.logger.Info("File catalog store initialized.", port.Fields{"path": cfg.Catalog.FilePath})
		return store, nil
	}
	return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend)
}

func (c *Core) sourceLocker(ctx context.Context, cfg *configs.AppConfig) (port.SourceLockerPort, error) {
	if !cfg.Redis.Enabled {
		c.logger.Info("Redis disabled, using in-process source locks.", nil)
		return locker.NewLocalLocker(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.closers = append(c.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.logger.Error("Failed to connect to Redis", err, port.Fields{"address": cfg.Redis.Address})
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	redisLocker, err := locker.NewRedisLocker(rdb, cfg.Redis.LockTTL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Redis source locker initialized.", port.Fields{"lock_ttl": cfg.Redis.LockTTL.String()})
	return redisLocker, nil
}

func (c *Core) importReporter(cfg *configs.AppConfig, baseLogger port.LoggerPort) (*rabbitmq_adapter.ImportReporterAdapter, error) {
	if !cfg.RabbitMQ.Enabled {
		c.logger.Info("RabbitMQ disabled, import reports are not published.", nil)
		return nil, nil
	}

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: cfg.RabbitMQ.URL}, connManagerBridge)
	if err != nil {
		c.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	c.closers = append(c.closers, connManager.Close)
	c.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             cfg.RabbitMQ.Exchange,
		ExchangeType:             constants.ReportsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		c.logger.Error("Failed to create event producer", err, nil)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	c.closers = append(c.closers, eventProducer.Close)
	c.logger.Info("RabbitMQ Event Producer initialized.", nil)

	return rabbitmq_adapter.NewImportReporterAdapter(eventProducer, constants.RoutingKeyImportCompleted)
}

// Close освобождает ресурсы в порядке, обратном созданию
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Error("Error closing resource", err, nil)
		}
	}
	c.closers = nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
