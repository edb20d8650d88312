package infra

import (
	"context"
	"sync"

	"abuse-guard/middleware/ratelimit/domain"
)

type Counters struct {
	Allowed int64
	Denied  int64
	Invalid int64
}

func (c *Counters) add(ev domain.StatsEvent) {
	switch {
	case ev.Allowed:
		c.Allowed++
	case ev.Reason == 0:
		c.Invalid++
	default:
		c.Denied++
	}
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu           sync.Mutex
	total        Counters
	byOutcome    map[string]int64
	byCapability map[string]Counters
	byClient     map[string]Counters

	trackClients bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackClients(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackClients = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byOutcome:    make(map[string]int64),
		byCapability: make(map[string]Counters),
		byClient:     make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	capName := ev.Capability.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev)
	s.byOutcome[ev.Outcome()]++

	c := s.byCapability[capName]
	c.add(ev)
	s.byCapability[capName] = c

	if s.trackClients && ev.Client != "" {
		k := s.byClient[ev.Client]
		k.add(ev)
		s.byClient[ev.Client] = k
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByOutcome() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byOutcome))
	for k, v := range s.byOutcome {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByCapability() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byCapability))
	for k, v := range s.byCapability {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByClient() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byClient))
	for k, v := range s.byClient {
		out[k] = v
	}
	return out
}
