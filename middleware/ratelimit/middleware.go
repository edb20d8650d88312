package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"abuse-guard/middleware/ratelimit/application"
	"abuse-guard/middleware/ratelimit/domain"

	log "github.com/sirupsen/logrus"
)

// KeyFunc extrai a identidade do cliente (um IPv4 em texto).
type KeyFunc func(r *http.Request) string

type Options struct {
	Guard *application.Guard
	Stats domain.StatsStore

	KeyFn              KeyFunc
	TrustXForwardedFor bool
	// ToolFn traduz a requisição em capability. Padrão: PathToolFunc.
	ToolFn ToolFunc
	// Validate, se definido, roda depois da admissão. Falha conta como erro
	// do cliente (RecordError) e responde 400.
	Validate ValidateFunc

	RejectStatus        int
	AddRateLimitHeaders bool
	Logger              log.FieldLogger
}

func DefaultKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Guard == nil {
		panic("ratelimit: Options.Guard is required")
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.TrustXForwardedFor)
	}
	if opts.ToolFn == nil {
		opts.ToolFn = PathToolFunc()
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}

	record := func(r *http.Request, ev domain.StatsEvent) {
		if opts.Stats == nil {
			return
		}
		ev.Method = r.Method
		ev.Path = r.URL.Path
		ev.At = time.Now()
		if err := opts.Stats.Record(r.Context(), ev); err != nil {
			opts.Logger.WithError(err).Warn("ratelimit: failed to record stats")
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			tool := opts.ToolFn(r)

			if err := opts.Guard.Admit(key, tool); err != nil {
				le, ok := domain.AsLimitError(err)
				if !ok {
					opts.Logger.WithError(err).Error("ratelimit: admission check failed")
					writeError(w, http.StatusInternalServerError, "internal error")
					return
				}
				record(r, domain.StatsEvent{Client: key, Capability: tool, Reason: le.Reason})
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(le.RetryAfter)))
				writeError(w, opts.RejectStatus, le.Error())
				return
			}

			if opts.Validate != nil {
				if err := opts.Validate(r); err != nil {
					opts.Guard.RecordError(key, tool)
					record(r, domain.StatsEvent{Client: key, Capability: tool})
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
			}

			opts.Guard.Increment(key, tool)
			record(r, domain.StatsEvent{Client: key, Capability: tool, Allowed: true})

			if opts.AddRateLimitHeaders {
				if snap, err := opts.Guard.Remaining(key, tool); err == nil {
					w.Header().Set("X-RateLimit-Limit", formatUint(snap.ToolMinute.Limit))
					w.Header().Set("X-RateLimit-Remaining", formatUint(snap.ToolMinute.Remaining))
					w.Header().Set("X-RateLimit-Daily-Remaining", formatUint(snap.ToolDaily.Remaining))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
