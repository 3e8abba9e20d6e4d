package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/singalong/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3000,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	reapPolicy = configVar[string]{
		envKey:       "SERVER_REAP_POLICY",
		flagKey:      "reap-policy",
		defaultValue: "none",
	}
	wsReadLimit = configVar[int64]{
		envKey:       "SERVER_WS_READ_LIMIT",
		flagKey:      "ws-read-limit",
		defaultValue: 32768,
	}
	wsPingPeriod = configVar[time.Duration]{
		envKey:       "SERVER_WS_PING_PERIOD",
		flagKey:      "ws-ping-period",
		defaultValue: 54 * time.Second,
	}
	wsSendBuffer = configVar[int]{
		envKey:       "SERVER_WS_SEND_BUFFER",
		flagKey:      "ws-send-buffer",
		defaultValue: 64,
	}
	lookupTimeout = configVar[time.Duration]{
		envKey:       "LOOKUP_TIMEOUT",
		flagKey:      "lookup-timeout",
		defaultValue: 0,
	}
	lookupCacheTTL = configVar[time.Duration]{
		envKey:       "LOOKUP_CACHE_TTL",
		flagKey:      "lookup-cache-ttl",
		defaultValue: 10 * time.Minute,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(reapPolicy.flagKey, reapPolicy.defaultValue, "Room reaping policy: none or host-left")
	pflag.Int64(wsReadLimit.flagKey, wsReadLimit.defaultValue, "Maximum size of an inbound websocket message in bytes")
	pflag.Duration(wsPingPeriod.flagKey, wsPingPeriod.defaultValue, "Interval between websocket pings")
	pflag.Int(wsSendBuffer.flagKey, wsSendBuffer.defaultValue, "Outbound messages buffered per connection")
	pflag.Duration(lookupTimeout.flagKey, lookupTimeout.defaultValue, "Search provider timeout, 0 disables it")
	pflag.Duration(lookupCacheTTL.flagKey, lookupCacheTTL.defaultValue, "Lifetime of cached search results")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host, empty disables the search cache")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(host)
	bind(port)
	bind(logLevel)
	bind(reapPolicy)
	bind(wsReadLimit)
	bind(wsPingPeriod)
	bind(wsSendBuffer)
	bind(lookupTimeout)
	bind(lookupCacheTTL)
	bind(redisHost)
	bind(redisPort)
	bind(redisPassword)

	return &app.AppConfig{
		Host:           viper.GetString(host.flagKey),
		Port:           viper.GetInt(port.flagKey),
		LogLevel:       viper.GetString(logLevel.flagKey),
		ReapPolicy:     viper.GetString(reapPolicy.flagKey),
		WSReadLimit:    viper.GetInt64(wsReadLimit.flagKey),
		WSPingPeriod:   viper.GetDuration(wsPingPeriod.flagKey),
		WSSendBuffer:   viper.GetInt(wsSendBuffer.flagKey),
		LookupTimeout:  viper.GetDuration(lookupTimeout.flagKey),
		LookupCacheTTL: viper.GetDuration(lookupCacheTTL.flagKey),
		RedisHost:      viper.GetString(redisHost.flagKey),
		RedisPort:      viper.GetInt(redisPort.flagKey),
		RedisPassword:  viper.GetString(redisPassword.flagKey),
	}
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
