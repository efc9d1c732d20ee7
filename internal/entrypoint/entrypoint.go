package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database"
	"github.com/mrlokans/annotator/internal/database/annotations"
	"github.com/mrlokans/annotator/internal/database/lessons"
	"github.com/mrlokans/annotator/internal/dictionary"
	http_controllers "github.com/mrlokans/annotator/internal/http"
	"github.com/mrlokans/annotator/internal/logging"
	"github.com/mrlokans/annotator/internal/scheduler"
	"github.com/mrlokans/annotator/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the server until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts it down within the configured timeout.
func Serve(ctx context.Context, router http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	log := logging.Component("server")
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server exiting")
	return nil
}

// NewRouterConfig opens the stores and clients the HTTP layer needs.
// The caller owns db and must close it.
func NewRouterConfig(cfg *config.Config, db *database.Database, version string) http_controllers.RouterConfig {
	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		LessonStore:     lessons.NewRepository(db.DB),
		AnnotationStore: annotations.NewRepository(db.DB),
		RejectOverlaps:  cfg.Annotations.RejectOverlaps,
		DefaultColor:    cfg.Annotations.DefaultColor,
		Version:         version,
	}
	if cfg.Dictionary.Enabled {
		routerCfg.DictionaryClient = dictionary.NewFreeDictionaryClientWithURL(cfg.Dictionary.BaseURL)
	}
	return routerCfg
}

// Background owns the task queue workers and the enrichment sweep.
type Background struct {
	client    *tasks.Client
	scheduler *scheduler.EnrichmentScheduler
	cancel    context.CancelFunc
}

// StartBackground starts the enrichment workers and the sweep scheduler and
// plugs the queue into routerCfg. It returns nil when tasks are disabled or
// there is no dictionary to enrich from.
func StartBackground(cfg *config.Config, db *database.Database, routerCfg *http_controllers.RouterConfig) (*Background, error) {
	if !cfg.Tasks.Enabled || routerCfg.DictionaryClient == nil {
		return nil, nil
	}
	if cfg.Tasks.EnrichSchedule != "" {
		if err := scheduler.ValidateSchedule(cfg.Tasks.EnrichSchedule); err != nil {
			return nil, fmt.Errorf("invalid cron schedule '%s': %w", cfg.Tasks.EnrichSchedule, err)
		}
	}

	taskCfg := tasks.DefaultConfig()
	if cfg.Tasks.Workers > 0 {
		taskCfg.Workers = cfg.Tasks.Workers
	}
	client, err := tasks.NewClient(cfg.Database.Path, taskCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize task queue: %w", err)
	}

	store := annotations.NewRepository(db.DB)
	client.Register(
		tasks.NewEnrichAnnotationQueue(store, routerCfg.DictionaryClient),
		tasks.NewEnrichPendingAnnotationsQueue(store, routerCfg.DictionaryClient),
	)

	ctx, cancel := context.WithCancel(context.Background())
	client.Start(ctx)

	sweep := scheduler.NewEnrichmentScheduler(cfg.Tasks.EnrichSchedule, client.EnqueuePendingSweep)
	if err := sweep.Start(ctx); err != nil {
		cancel()
		client.Stop(context.Background())
		client.Close()
		return nil, err
	}

	routerCfg.EnrichmentQueue = client
	return &Background{client: client, scheduler: sweep, cancel: cancel}, nil
}

// Shutdown stops the scheduler and waits for running tasks until ctx expires.
func (b *Background) Shutdown(ctx context.Context) {
	b.scheduler.Stop()
	b.client.Stop(ctx)
	b.cancel()
}

func (b *Background) Close() error {
	return b.client.Close()
}

func Run(ctx context.Context, cfg *config.Config, version string) error {
	log := logging.Component("server")
	log.Info().Str("version", version).Msg("starting annotator")

	if zlog.Logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	routerCfg := NewRouterConfig(cfg, db, version)
	if routerCfg.DictionaryClient == nil {
		log.Warn().Msg("dictionary lookup disabled, set DICTIONARY_ENABLED=true to enable /api/lookup")
	}
	if cfg.Annotations.RejectOverlaps {
		log.Info().Msg("overlapping annotations will be rejected")
	}

	background, err := StartBackground(cfg, db, &routerCfg)
	if err != nil {
		return err
	}
	var onShutdown ShutdownFunc
	if background != nil {
		defer func() {
			if err := background.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close task queue")
			}
		}()
		onShutdown = background.Shutdown
	} else {
		log.Info().Msg("background enrichment disabled")
	}

	router := http_controllers.NewRouter(routerCfg)

	return Serve(ctx, router, cfg, onShutdown)
}
