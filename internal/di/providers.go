package di

import (
	"context"
	"fmt"
	"time"

	"LagScan/internal/domain/repository"
	"LagScan/internal/handler/api"
	internalrepo "LagScan/internal/repository"
	"LagScan/internal/services/lagcorr"
	"LagScan/internal/usecase"
	"LagScan/pkg/cache"
	pkgch "LagScan/pkg/clickhouse"
	"LagScan/pkg/config"
	xhttp "LagScan/pkg/http"
	pkgkafka "LagScan/pkg/kafka"
	applogger "LagScan/pkg/logger"
	"LagScan/pkg/metrics"
	"LagScan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine builds the lag-correlation engine from config.
func ProvideEngine(cfg *config.Config) (*lagcorr.Engine, error) {
	return lagcorr.NewEngine(cfg.Engine.Window, cfg.Engine.MaxLag)
}

// ProvideClickHouseClient creates a ClickHouse client when either the source
// or the result backend needs one; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Source.Type != "clickhouse" && cfg.Backend.Type != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if cfg.Backend.Type == "clickhouse" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.ResultSchema); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the result backend is
// kafka; otherwise it returns nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideSeriesSource selects the configured series source.
func ProvideSeriesSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (repository.SeriesSource, error) {
	switch cfg.Source.Type {
	case "csv":
		src := internalrepo.NewCSVSource(cfg.Source.DataDir)
		src.SetLogger(l)
		return src, nil
	case "clickhouse":
		src := internalrepo.NewCHSource(ch, cfg.Source.Table)
		src.SetLogger(l)
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Source.Type)
	}
}

// ProvideResultSink selects the configured result sink.
func ProvideResultSink(cfg *config.Config, ch *pkgch.Client, producer *pkgkafka.Producer, l *applogger.Logger) (repository.ResultSink, error) {
	switch cfg.Backend.Type {
	case "clickhouse":
		sink := internalrepo.NewCHSink(ch, cfg.Backend.BatchSize)
		sink.SetLogger(l)
		return sink, nil
	case "kafka":
		sink := internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic)
		sink.SetLogger(l)
		return sink, nil
	case "none":
		return internalrepo.NewNoopSink(), nil
	default:
		return nil, fmt.Errorf("unknown backend type: %s", cfg.Backend.Type)
	}
}

// ProvideMemoryStore creates the in-memory result store.
func ProvideMemoryStore() *internalrepo.MemoryStore {
	return internalrepo.NewMemoryStore()
}

// ProvideResultStore exposes the store's read side.
func ProvideResultStore(store *internalrepo.MemoryStore) repository.ResultStore {
	return store
}

// ProvideResultRecorder exposes the store's write side.
func ProvideResultRecorder(store *internalrepo.MemoryStore) repository.ResultRecorder {
	return store
}

// ProvideCache selects the configured cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Type {
	case "redis":
		return cache.NewRedisCache(
			cache.WithAddr(cfg.Cache.Redis.Addr),
			cache.WithCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		)
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvidePairRunner creates the batch runner.
func ProvidePairRunner(
	source repository.SeriesSource,
	sink repository.ResultSink,
	recorder repository.ResultRecorder,
	engine *lagcorr.Engine,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.PairRunner {
	runner := usecase.NewPairRunner(source, sink, recorder, engine, m, cfg.Instruments, cfg.Engine.Workers)
	runner.SetLogger(l)
	return runner
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(l *applogger.Logger, store repository.ResultStore, c cache.Service, cfg *config.Config) xhttp.Handler {
	return api.NewCorrelationHandler(l, store, c, cfg.Cache.TTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	runner *usecase.PairRunner,
	handler xhttp.Handler,
	source repository.SeriesSource,
	sink repository.ResultSink,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, runner, handler, source, sink, cacheSvc, chClient, producer)
}
