package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"LagScan/internal/domain/models"
	drepo "LagScan/internal/domain/repository"
	"LagScan/internal/usecase"
	"LagScan/pkg/cache"
	pkgch "LagScan/pkg/clickhouse"
	"LagScan/pkg/config"
	xhttp "LagScan/pkg/http"
	pkgkafka "LagScan/pkg/kafka"
	applogger "LagScan/pkg/logger"
)

// App encapsulates the application lifecycle: it runs the correlation batch
// in the background, serves the HTTP API, and on shutdown closes everything
// the batch was wired to.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	runner     *usecase.PairRunner
	handler    xhttp.Handler
	source     drepo.SeriesSource
	sink       drepo.ResultSink
	cache      cache.Service
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	runner *usecase.PairRunner,
	handler xhttp.Handler,
	source drepo.SeriesSource,
	sink drepo.ResultSink,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		runner:   runner,
		handler:  handler,
		source:   source,
		sink:     sink,
		cache:    cacheSvc,
		chClient: chClient,
		producer: producer,
	}
}

// Run starts the application and blocks until interrupted. The batch runs in
// the background; the API serves whatever the store holds at any moment, so
// it comes up immediately.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithLogger(a.l),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRateLimit(a.cfg.Server.RateLimitRPS, a.cfg.Server.RateLimitBurst),
	)
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	go func() {
		reports, err := a.runner.Run(ctx)
		if err != nil {
			a.l.Error("batch error", applogger.Error(err))
			return
		}
		var ok, empty, failed int
		for _, rep := range reports {
			switch rep.Status {
			case models.PairStatusOK:
				ok++
			case models.PairStatusEmpty:
				empty++
			default:
				failed++
			}
		}
		a.l.Info("batch complete",
			applogger.Int("ok", ok),
			applogger.Int("empty", empty),
			applogger.Int("failed", failed),
		)
	}()
	a.l.Info("batch started",
		applogger.Strings("instruments", a.cfg.Instruments),
		applogger.Int("workers", a.cfg.Engine.Workers),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops the server and closes all wired resources.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.sink.Close(); err != nil {
		a.l.Warn("sink close error", applogger.Error(err))
	}
	if err := a.source.Close(); err != nil {
		a.l.Warn("source close error", applogger.Error(err))
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.l.Warn("cache close error", applogger.Error(err))
	}

	a.l.Info("shutdown complete")
	return nil
}
