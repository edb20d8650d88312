package infra

import (
	"sync"

	"abuse-guard/middleware/ratelimit/domain"

	"go.uber.org/atomic"
)

// counterShards precisa ser potência de 2.
const counterShards = 64

// CounterStore é um mapa concorrente Key -> contador, particionado em shards.
//
// Cada shard tem seu próprio RWMutex; incrementar uma chave existente só pega
// o lock de leitura do shard e faz um Inc atômico, então chaves diferentes
// (mesmo no mesmo shard) não se serializam.
type CounterStore struct {
	shards [counterShards]counterShard
}

type counterShard struct {
	mu sync.RWMutex
	m  map[domain.Key]*atomic.Uint64
}

func NewCounterStore() *CounterStore {
	s := &CounterStore{}
	for i := range s.shards {
		s.shards[i].m = make(map[domain.Key]*atomic.Uint64)
	}
	return s
}

func (s *CounterStore) shard(k domain.Key) *counterShard {
	// os bits baixos da chave são o bucket (iguais para todos os clientes no
	// mesmo minuto/dia), então misturamos antes de escolher o shard.
	h := uint64(k)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return &s.shards[h&(counterShards-1)]
}

// Get implementa domain.CounterStore. Chave ausente vale 0.
func (s *CounterStore) Get(k domain.Key) uint64 {
	sh := s.shard(k)
	sh.mu.RLock()
	c := sh.m[k]
	sh.mu.RUnlock()
	if c == nil {
		return 0
	}
	return c.Load()
}

// Increment implementa domain.CounterStore e devolve o novo valor.
func (s *CounterStore) Increment(k domain.Key) uint64 {
	sh := s.shard(k)

	// o Inc acontece com o lock ainda segurado para que o Sweep não remova
	// o contador entre o lookup e o incremento.
	sh.mu.RLock()
	if c := sh.m[k]; c != nil {
		v := c.Inc()
		sh.mu.RUnlock()
		return v
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	c := sh.m[k]
	if c == nil {
		c = atomic.NewUint64(0)
		sh.m[k] = c
	}
	return c.Inc()
}

// Sweep remove as chaves para as quais evict retorna true.
// Retorna quantas chaves foram removidas.
func (s *CounterStore) Sweep(evict func(domain.Key) bool) int {
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k := range sh.m {
			if evict(k) {
				delete(sh.m, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len é o número de chaves vivas.
func (s *CounterStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}
