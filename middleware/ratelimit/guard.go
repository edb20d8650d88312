package ratelimit

import (
	"abuse-guard/middleware/ratelimit/application"
	"abuse-guard/middleware/ratelimit/domain"
	"abuse-guard/middleware/ratelimit/infra"
)

// NewInMemoryGuard liga um Guard às tabelas em memória.
// O backend é devolvido para montar o Sweeper e as métricas.
func NewInMemoryGuard(limits domain.Limits, opts ...application.Option) (*application.Guard, *infra.MemoryBackend, error) {
	be := infra.NewMemoryBackend()
	g, err := application.NewGuard(limits, application.Stores{
		GlobalDaily: be.GlobalDaily,
		ToolDaily:   be.ToolDaily,
		ToolMinute:  be.ToolMinute,
		Bans:        be.Bans,
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return g, be, nil
}
