package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/singalong/server/internal/controller"
	connInmemory "github.com/singalong/server/internal/repository/connection/inmemory"
	lookupRedis "github.com/singalong/server/internal/repository/lookup/redis"
	roomInmemory "github.com/singalong/server/internal/repository/room/inmemory"
	"github.com/singalong/server/internal/service/lookup"
	"github.com/singalong/server/internal/service/room"
	"github.com/singalong/server/pkg/ctxlogger"
	"github.com/singalong/server/pkg/randstr"
	"github.com/singalong/server/pkg/redisclient"
	"github.com/singalong/server/pkg/ytsearch"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

type AppConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	LogLevel       string        `json:"log_level"`
	ReapPolicy     string        `json:"reap_policy"`
	WSReadLimit    int64         `json:"ws_read_limit"`
	WSPingPeriod   time.Duration `json:"ws_ping_period"`
	WSSendBuffer   int           `json:"ws_send_buffer"`
	LookupTimeout  time.Duration `json:"lookup_timeout"`
	LookupCacheTTL time.Duration `json:"lookup_cache_ttl"`
	RedisHost      string        `json:"redis_host"`
	RedisPort      int           `json:"redis_port"`
	RedisPassword  string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if _, err := room.ParseReapPolicy(cfg.ReapPolicy); err != nil {
		return err
	}
	if cfg.WSReadLimit < 1 {
		return fmt.Errorf("ws read limit must be greater than 0")
	}
	if cfg.WSPingPeriod <= 0 {
		return fmt.Errorf("ws ping period must be greater than 0")
	}
	if cfg.WSSendBuffer < 1 {
		return fmt.Errorf("ws send buffer must be greater than 0")
	}
	if cfg.LookupTimeout < 0 {
		return fmt.Errorf("lookup timeout must not be negative")
	}
	if cfg.RedisHost != "" && cfg.LookupCacheTTL <= 0 {
		return fmt.Errorf("lookup cache ttl must be greater than 0")
	}

	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

// newHandler wires repositories, services and the controller. The returned
// cleanup releases the redis client when the lookup cache is enabled.
func newHandler(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (http.Handler, func(), error) {
	reapPolicy, err := room.ParseReapPolicy(cfg.ReapPolicy)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	provider := ytsearch.New(&http.Client{}, ytsearch.DefaultBaseURL)
	lookupCfg := &lookup.Config{Timeout: cfg.LookupTimeout}
	lookupService := lookup.NewService(provider, nil, lookupCfg, logger)
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		cleanup = func() { rc.Close() }

		cacheRepo := lookupRedis.NewRepo(rc, cfg.LookupCacheTTL, logger)
		lookupService = lookup.NewService(provider, cacheRepo, lookupCfg, logger)
	} else {
		logger.InfoContext(ctx, "lookup cache disabled")
	}

	roomRepo := roomInmemory.NewRepo(randstr.New([]byte(randstr.Digits)), logger)
	connectionRepo := connInmemory.NewRepo(logger)
	roomService := room.NewService(roomRepo, connectionRepo, reapPolicy, logger)

	controller := controller.NewController(roomService, lookupService, &controller.Config{
		WSReadLimit:  cfg.WSReadLimit,
		WSPingPeriod: cfg.WSPingPeriod,
		WSSendBuffer: cfg.WSSendBuffer,
	}, logger)

	return controller.GetMux(), cleanup, nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	handler, cleanup, err := newHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		return nil
	})

	return g.Wait()
}
