package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"abuse-guard/middleware/ratelimit"
	"abuse-guard/middleware/ratelimit/domain"
	"abuse-guard/middleware/ratelimit/infra"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// campo obrigatório do body de cada tool
var tools = map[string]string{
	"chat":    "message",
	"content": "topic",
	"code":    "prompt",
	"image":   "prompt",
	"voice":   "text",
	"resume":  "name",
	"email":   "subject",
	"video":   "prompt",
	"seo":     "url",
	"bot":     "name",
}

func main() {
	// Exemplo: o guard direto no seu webserver (sem proxy), com respostas fixas por tool.
	guard, backend, err := ratelimit.NewInMemoryGuard(domain.DemoLimits())
	if err != nil {
		log.Fatalf("guard error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	infra.NewSweeper(domain.DemoLimits().CleanupInterval, backend.SweepTargets()).Start(ctx)

	stats := infra.NewMemoryStatsStore()

	r := chi.NewRouter()
	r.Use(ratelimit.DemoHeader(true))
	r.Method(http.MethodGet, "/{tool}/api/limits", ratelimit.LimitsHandler(ratelimit.LimitsOptions{Guard: guard, Demo: true}))
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats.ByOutcome())
	})

	for name, field := range tools {
		c := domain.CapabilityOf(name)
		r.With(ratelimit.Middleware(ratelimit.Options{
			Guard:               guard,
			Stats:               stats,
			ToolFn:              ratelimit.StaticTool(c),
			Validate:            ratelimit.JSONBodyValidator(16<<10, field),
			TrustXForwardedFor:  true,
			AddRateLimitHeaders: true,
		})).Post("/"+name+"/api/*", cannedHandler(c))
	}

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("example server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func cannedHandler(c domain.Capability) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tool":   c.String(),
			"result": "demo response for " + c.String(),
			"demo":   true,
		})
	}
}
