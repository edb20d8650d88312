package infra

import (
	"time"

	"abuse-guard/middleware/ratelimit/domain"
)

// MemoryBackend agrupa as quatro tabelas do guard.
// Criado uma vez no startup e compartilhado por todas as requisições.
type MemoryBackend struct {
	GlobalDaily *CounterStore
	ToolDaily   *CounterStore
	// ToolMinute também guarda os contadores de erro (CapabilityError).
	ToolMinute *CounterStore
	Bans       *BanTable
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		GlobalDaily: NewCounterStore(),
		ToolDaily:   NewCounterStore(),
		ToolMinute:  NewCounterStore(),
		Bans:        NewBanTable(),
	}
}

// SweepTargets liga cada store ao tamanho de bucket das suas chaves.
func (b *MemoryBackend) SweepTargets() []SweepTarget {
	return []SweepTarget{
		{Name: "global_daily", Store: b.GlobalDaily, Bucket: domain.DayBucket},
		{Name: "tool_daily", Store: b.ToolDaily, Bucket: domain.DayBucket},
		{Name: "tool_minute", Store: b.ToolMinute, Bucket: domain.MinuteBucket},
	}
}

// BucketFunc calcula o bucket corrente de um store.
type BucketFunc func(now time.Time) (uint32, error)
