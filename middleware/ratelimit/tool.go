package ratelimit

import (
	"net/http"
	"strings"

	"abuse-guard/middleware/ratelimit/domain"
)

// ToolFunc traduz a requisição em capability, uma vez, na borda HTTP.
type ToolFunc func(r *http.Request) domain.Capability

// PathToolFunc usa o primeiro segmento do path: /chat/api/chat -> chat.
func PathToolFunc() ToolFunc {
	return func(r *http.Request) domain.Capability {
		return domain.CapabilityOf(firstSegment(r.URL.Path))
	}
}

// StaticTool fixa a capability, para rotas já montadas por tool.
func StaticTool(c domain.Capability) ToolFunc {
	return func(*http.Request) domain.Capability { return c }
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return strings.ToLower(seg)
}
