package ratelimit

import (
	"net/http"
	"strings"

	"abuse-guard/middleware/ratelimit/application"
	"abuse-guard/middleware/ratelimit/domain"

	log "github.com/sirupsen/logrus"
)

type LimitsOptions struct {
	Guard              *application.Guard
	KeyFn              KeyFunc
	TrustXForwardedFor bool
	// DefaultTool é usada sem ?tool= e quando o path não nomeia uma tool.
	DefaultTool string
	Demo        bool
	Logger      log.FieldLogger
}

type limitsResponse struct {
	Remaining domain.UsageSnapshot `json:"remaining"`
	Demo      bool                 `json:"demo"`
}

// LimitsHandler responde o uso de cota do cliente para uma tool.
// Só leitura: não conta como requisição.
func LimitsHandler(opts LimitsOptions) http.Handler {
	if opts.Guard == nil {
		panic("ratelimit: LimitsOptions.Guard is required")
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.TrustXForwardedFor)
	}
	if opts.DefaultTool == "" {
		opts.DefaultTool = "chat"
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("tool"))
		if name == "" {
			name = firstSegment(r.URL.Path)
			if domain.CapabilityOf(name) == domain.CapabilityGlobal {
				name = opts.DefaultTool
			}
		}

		snap, err := opts.Guard.Remaining(opts.KeyFn(r), domain.CapabilityOf(name))
		if err != nil {
			opts.Logger.WithError(err).Error("ratelimit: failed to build usage snapshot")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, limitsResponse{Remaining: snap, Demo: opts.Demo})
	})
}

// DemoHeader marca toda resposta com X-Demo-Mode.
func DemoHeader(demo bool) func(next http.Handler) http.Handler {
	v := "false"
	if demo {
		v = "true"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Demo-Mode", v)
			next.ServeHTTP(w, r)
		})
	}
}
