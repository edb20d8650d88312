package infra

import (
	"sync"
	"time"

	"abuse-guard/middleware/ratelimit/domain"
)

const banShards = 16

// BanTable implementa domain.BanTable em memória.
//
// A expiração é preguiçosa: a entrada só sai do mapa quando um IsBanned
// observa que o prazo passou. Não existe varredura de bans.
type BanTable struct {
	shards [banShards]banShard
}

type banShard struct {
	mu sync.RWMutex
	m  map[domain.ClientID]int64 // fim do ban em unix seconds
}

func NewBanTable() *BanTable {
	t := &BanTable{}
	for i := range t.shards {
		t.shards[i].m = make(map[domain.ClientID]int64)
	}
	return t
}

func (t *BanTable) shard(id domain.ClientID) *banShard {
	return &t.shards[(uint32(id)*2654435761)>>28]
}

func (t *BanTable) IsBanned(id domain.ClientID, now time.Time) bool {
	sh := t.shard(id)
	sec := now.Unix()

	sh.mu.RLock()
	until, ok := sh.m[id]
	sh.mu.RUnlock()
	if !ok {
		return false
	}
	if sec < until {
		return true
	}

	sh.mu.Lock()
	// confere de novo: um Ban concorrente pode ter renovado a entrada.
	if until, ok := sh.m[id]; ok && sec >= until {
		delete(sh.m, id)
	}
	sh.mu.Unlock()
	return false
}

// Ban grava now+d, sobrescrevendo qualquer ban anterior. A tabela guarda
// segundos, então d é arredondado para cima.
func (t *BanTable) Ban(id domain.ClientID, now time.Time, d time.Duration) {
	until := now.Unix() + int64((d+time.Second-1)/time.Second)

	sh := t.shard(id)
	sh.mu.Lock()
	sh.m[id] = until
	sh.mu.Unlock()
}

// Expiry retorna o fim do ban registrado, sem checar se já passou.
func (t *BanTable) Expiry(id domain.ClientID) (time.Time, bool) {
	sh := t.shard(id)
	sh.mu.RLock()
	until, ok := sh.m[id]
	sh.mu.RUnlock()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(until, 0), true
}

func (t *BanTable) Len() int {
	n := 0
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}
