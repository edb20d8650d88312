package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"abuse-guard/middleware/ratelimit/domain"

	"github.com/joho/godotenv"
)

type config struct {
	listenAddr  string
	upstreamURL string
	demoMode    bool
	limits      domain.Limits
	trustXFF    bool
	addHeaders  bool
	maxBody     int64

	logLevel  string
	logFormat string

	metricsEnabled bool

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
	rateStatsTrackClients  bool
}

func readConfig() (config, error) {
	// .env é opcional
	_ = godotenv.Load()

	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = strings.TrimSpace(os.Getenv("UPSTREAM_URL"))
	cfg.demoMode = getenvBoolDefault("DEMO_MODE", true)

	// o preset vem do modo; cada cota pode ser sobrescrita individualmente.
	cfg.limits = domain.ProductionLimits()
	if cfg.demoMode {
		cfg.limits = domain.DemoLimits()
	}
	var err error
	if cfg.limits.GlobalDaily, err = getenvUintDefault("GLOBAL_DAILY_LIMIT", cfg.limits.GlobalDaily); err != nil {
		return config{}, err
	}
	if cfg.limits.ToolDaily, err = getenvUintDefault("TOOL_DAILY_LIMIT", cfg.limits.ToolDaily); err != nil {
		return config{}, err
	}
	if cfg.limits.ToolMinute, err = getenvUintDefault("TOOL_MINUTE_LIMIT", cfg.limits.ToolMinute); err != nil {
		return config{}, err
	}
	if cfg.limits.ErrorBanThreshold, err = getenvUintDefault("ERROR_BAN_THRESHOLD", cfg.limits.ErrorBanThreshold); err != nil {
		return config{}, err
	}
	if cfg.limits.ErrorBanDuration, err = getenvDurationDefault("ERROR_BAN_DURATION", cfg.limits.ErrorBanDuration); err != nil {
		return config{}, err
	}
	if cfg.limits.CleanupInterval, err = getenvDurationDefault("CLEANUP_INTERVAL", cfg.limits.CleanupInterval); err != nil {
		return config{}, err
	}

	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	maxBody, err := getenvIntDefault("MAX_BODY_BYTES", 64<<10)
	if err != nil {
		return config{}, err
	}
	cfg.maxBody = int64(maxBody)

	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logFormat = getenvDefault("LOG_FORMAT", "text")

	cfg.metricsEnabled = getenvBoolDefault("METRICS_ENABLED", true)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	if cfg.rateStatsRedisDB, err = getenvIntDefault("RATE_STATS_REDIS_DB", 0); err != nil {
		return config{}, err
	}
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "guard:stats")
	if cfg.rateStatsTTL, err = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour); err != nil {
		return config{}, err
	}
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackClients = getenvBoolDefault("RATE_STATS_TRACK_CLIENTS", false)

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.maxBody <= 0 {
		return config{}, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if err := cfg.limits.Validate(); err != nil {
		return config{}, fmt.Errorf("invalid limits: %w", err)
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// os getenv numéricos falham em vez de cair no padrão: valor digitado errado
// não pode virar silenciosamente outro valor.
func getenvIntDefault(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func getenvUintDefault(k string, def uint64) (uint64, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return u, nil
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvDurationDefault exige unidade ("2h", "90s"); um número puro é erro.
func getenvDurationDefault(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}
