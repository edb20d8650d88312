package infra

import (
	"testing"

	"abuse-guard/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCounterStore_GetDefaultsToZero(t *testing.T) {
	s := NewCounterStore()
	assert.Equal(t, uint64(0), s.Get(domain.GenerateKey(1, domain.CapabilityChat, 10)))
	assert.Equal(t, 0, s.Len(), "Get must not create entries")
}

func TestCounterStore_IncrementStartsAtOne(t *testing.T) {
	s := NewCounterStore()
	k := domain.GenerateKey(1, domain.CapabilityChat, 10)

	assert.Equal(t, uint64(1), s.Increment(k))
	assert.Equal(t, uint64(2), s.Increment(k))
	assert.Equal(t, uint64(2), s.Get(k))
	assert.Equal(t, uint64(0), s.Get(domain.GenerateKey(2, domain.CapabilityChat, 10)))
}

func TestCounterStore_ConcurrentIncrementsSameKey(t *testing.T) {
	s := NewCounterStore()
	k := domain.GenerateKey(domain.ParseClientID("1.2.3.4"), domain.CapabilityCode, 42)

	const m = 1000
	var g errgroup.Group
	for i := 0; i < m; i++ {
		g.Go(func() error {
			s.Increment(k)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, uint64(m), s.Get(k))
}

func TestCounterStore_ConcurrentIncrementsManyKeys(t *testing.T) {
	s := NewCounterStore()

	const clients, perClient = 50, 40
	var g errgroup.Group
	for c := 0; c < clients; c++ {
		k := domain.GenerateKey(domain.ClientID(c), domain.CapabilityChat, 7)
		for i := 0; i < perClient; i++ {
			g.Go(func() error {
				s.Increment(k)
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, clients, s.Len())
	for c := 0; c < clients; c++ {
		assert.Equal(t, uint64(perClient), s.Get(domain.GenerateKey(domain.ClientID(c), domain.CapabilityChat, 7)))
	}
}

func TestCounterStore_Sweep(t *testing.T) {
	s := NewCounterStore()
	old := domain.GenerateKey(1, domain.CapabilityChat, 9)
	cur := domain.GenerateKey(1, domain.CapabilityChat, 10)
	s.Increment(old)
	s.Increment(cur)

	removed := s.Sweep(func(k domain.Key) bool { return k.Bucket() < 10 })
	assert.Equal(t, 1, removed)
	assert.Equal(t, uint64(0), s.Get(old))
	assert.Equal(t, uint64(1), s.Get(cur))
	assert.Equal(t, 1, s.Len())
}
