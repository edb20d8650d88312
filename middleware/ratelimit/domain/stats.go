package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão do guard.
//
// Ele é propositalmente "agnóstico de HTTP": Method/Path são strings genéricas.
//
// Observação: cuidado com cardinalidade (ex.: salvar Client/Path sem controle pode
// explodir o número de séries/chaves em uma base como Redis/Prometheus).
type StatsEvent struct {
	Client     string
	Capability Capability
	Allowed    bool
	// Reason só é preenchido quando Allowed=false. Zero com Allowed=false
	// significa requisição inválida (RecordError).
	Reason Reason

	Method string
	Path   string

	At time.Time
}

// Outcome resume o evento em um rótulo estável ("allowed", "invalid", ou o Reason).
func (ev StatsEvent) Outcome() string {
	if ev.Allowed {
		return "allowed"
	}
	if ev.Reason == 0 {
		return "invalid"
	}
	return ev.Reason.String()
}

// StatsStore é a estratégia de persistência para estatísticas do guard.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O middleware trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
