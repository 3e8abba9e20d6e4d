package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/singalong/server/pkg/ctxlogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Host:           "127.0.0.1",
		Port:           3000,
		LogLevel:       "INFO",
		ReapPolicy:     "none",
		WSReadLimit:    32768,
		WSPingPeriod:   54 * time.Second,
		WSSendBuffer:   64,
		LookupCacheTTL: 10 * time.Minute,
		RedisPort:      6379,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(*AppConfig){
		"port":           func(c *AppConfig) { c.Port = 0 },
		"reap policy":    func(c *AppConfig) { c.ReapPolicy = "sometimes" },
		"read limit":     func(c *AppConfig) { c.WSReadLimit = 0 },
		"ping period":    func(c *AppConfig) { c.WSPingPeriod = 0 },
		"send buffer":    func(c *AppConfig) { c.WSSendBuffer = 0 },
		"lookup timeout": func(c *AppConfig) { c.LookupTimeout = -time.Second },
		"cache ttl":      func(c *AppConfig) { c.RedisHost = "localhost"; c.LookupCacheTTL = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug")
	require.NoError(t, err)

	ctx := ctxlogger.AppendCtx(context.Background(), slog.String("conn_id", "abc"))
	logger.DebugContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "abc", record["conn_id"])

	_, err = newLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestNewHandlerWithoutCache(t *testing.T) {
	handler, cleanup, err := newHandler(context.Background(), validConfig(), slog.Default())
	require.NoError(t, err)
	defer cleanup()

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/search")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNewHandlerWithCache(t *testing.T) {
	s := miniredis.RunT(t)
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)

	cfg := validConfig()
	cfg.RedisHost = s.Host()
	cfg.RedisPort = port

	handler, cleanup, err := newHandler(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, handler)
}

func TestNewHandlerRedisUnavailable(t *testing.T) {
	s := miniredis.RunT(t)
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)
	s.Close()

	cfg := validConfig()
	cfg.RedisHost = "127.0.0.1"
	cfg.RedisPort = port

	_, _, err = newHandler(context.Background(), cfg, slog.Default())
	assert.Error(t, err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.WSSendBuffer = 0

	assert.Error(t, Run(context.Background(), cfg))
}
