package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"abuse-guard/middleware/ratelimit"
	"abuse-guard/middleware/ratelimit/application"
	"abuse-guard/middleware/ratelimit/domain"
	"abuse-guard/middleware/ratelimit/infra"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	setupLogging(cfg)

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		log.Fatalf("invalid UPSTREAM_URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithField("path", r.URL.Path).Warn("proxy error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	guard, backend, err := ratelimit.NewInMemoryGuard(cfg.limits, application.WithLogger(log.StandardLogger()))
	if err != nil {
		log.Fatalf("guard error: %v", err)
	}

	stats := infra.MultiStatsStore{}
	reg := prometheus.NewRegistry()
	if cfg.metricsEnabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		promStats, err := infra.NewPrometheusStatsStore(reg)
		if err != nil {
			log.Fatalf("metrics error: %v", err)
		}
		if err := infra.RegisterBackendGauges(reg, backend); err != nil {
			log.Fatalf("metrics error: %v", err)
		}
		stats = append(stats, promStats)
	}

	if cfg.rateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.rateStatsRedisAddr,
			Password: cfg.rateStatsRedisPassword,
			DB:       cfg.rateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		stats = append(stats, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackClients(cfg.rateStatsTrackClients),
		))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sweeper := infra.NewSweeper(cfg.limits.CleanupInterval, backend.SweepTargets(), infra.WithSweepLogger(log.StandardLogger()))
	sweeper.Start(ctx)

	var statsStore domain.StatsStore
	if len(stats) > 0 {
		statsStore = stats
	}

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           newRouter(cfg, guard, statsStore, reg, proxy),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(log.Fields{"addr": cfg.listenAddr, "upstream": target.String(), "demo": cfg.demoMode}).Info("gateway listening")
	log.WithFields(log.Fields{
		"global_daily":     cfg.limits.GlobalDaily,
		"tool_daily":       cfg.limits.ToolDaily,
		"tool_minute":      cfg.limits.ToolMinute,
		"ban_threshold":    cfg.limits.ErrorBanThreshold,
		"ban_duration":     cfg.limits.ErrorBanDuration.String(),
		"cleanup_interval": cfg.limits.CleanupInterval.String(),
		"trust_xff":        cfg.trustXFF,
	}).Info("guard limits")
	log.WithFields(log.Fields{"metrics": cfg.metricsEnabled, "redis_stats": cfg.rateStatsEnabled, "redis_addr": cfg.rateStatsRedisAddr}).Info("stats sinks")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter(cfg config, guard *application.Guard, stats domain.StatsStore, gatherer prometheus.Gatherer, upstream http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(ratelimit.DemoHeader(cfg.demoMode))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if cfg.metricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	limits := ratelimit.LimitsHandler(ratelimit.LimitsOptions{
		Guard:              guard,
		TrustXForwardedFor: cfg.trustXFF,
		Demo:               cfg.demoMode,
	})
	r.Method(http.MethodGet, "/api/limits", limits)
	r.Method(http.MethodGet, "/{tool}/api/limits", limits)

	// só chamadas que executam a tool contam cota; leituras (ex.: lista de
	// vozes) passam direto.
	guarded := ratelimit.Middleware(ratelimit.Options{
		Guard:               guard,
		Stats:               stats,
		TrustXForwardedFor:  cfg.trustXFF,
		Validate:            ratelimit.JSONBodyValidator(cfg.maxBody),
		AddRateLimitHeaders: cfg.addHeaders,
	})
	r.Route("/{tool}/api", func(r chi.Router) {
		r.Get("/*", upstream.ServeHTTP)
		r.Head("/*", upstream.ServeHTTP)
		r.Options("/*", upstream.ServeHTTP)
		for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			r.With(guarded).Method(m, "/*", upstream)
		}
	})
	return r
}

func setupLogging(cfg config) {
	if cfg.logFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)
	level, err := log.ParseLevel(cfg.logLevel)
	if err != nil {
		log.WithError(err).Warn("invalid LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
