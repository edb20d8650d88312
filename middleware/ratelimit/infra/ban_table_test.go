package infra

import (
	"testing"
	"time"

	"abuse-guard/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanTable_Lifecycle(t *testing.T) {
	tbl := NewBanTable()
	id := domain.ParseClientID("5.6.7.8")
	now := time.Unix(1_700_000_000, 0)

	assert.False(t, tbl.IsBanned(id, now))

	tbl.Ban(id, now, time.Hour)
	assert.True(t, tbl.IsBanned(id, now))
	assert.True(t, tbl.IsBanned(id, now.Add(time.Hour-time.Second)))

	// expira exatamente em now+d, e a leitura remove a entrada
	assert.False(t, tbl.IsBanned(id, now.Add(time.Hour)))
	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Expiry(id)
	assert.False(t, ok)
}

func TestBanTable_SubSecondBanRoundsUp(t *testing.T) {
	tbl := NewBanTable()
	now := time.Unix(1_700_000_000, 0)

	tbl.Ban(7, now, 500*time.Millisecond)
	assert.True(t, tbl.IsBanned(7, now))
	assert.False(t, tbl.IsBanned(7, now.Add(time.Second)))

	tbl.Ban(7, now, 1500*time.Millisecond)
	until, ok := tbl.Expiry(7)
	require.True(t, ok)
	assert.Equal(t, now.Add(2*time.Second), until)
}

func TestBanTable_BanOverwritesInsteadOfExtending(t *testing.T) {
	tbl := NewBanTable()
	id := domain.ClientID(99)
	now := time.Unix(1_700_000_000, 0)

	tbl.Ban(id, now, 2*time.Hour)
	tbl.Ban(id, now.Add(time.Minute), 10*time.Minute)

	until, ok := tbl.Expiry(id)
	require.True(t, ok)
	assert.Equal(t, now.Add(11*time.Minute), until)
	assert.False(t, tbl.IsBanned(id, now.Add(12*time.Minute)))
}

func TestBanTable_ExpiredEntryStaysUntilRead(t *testing.T) {
	tbl := NewBanTable()
	now := time.Unix(1_700_000_000, 0)
	tbl.Ban(1, now, time.Second)
	tbl.Ban(2, now, time.Second)

	later := now.Add(time.Minute)
	assert.Equal(t, 2, tbl.Len())
	assert.False(t, tbl.IsBanned(1, later))
	assert.Equal(t, 1, tbl.Len())
}

func TestBanTable_IndependentClients(t *testing.T) {
	tbl := NewBanTable()
	now := time.Unix(1_700_000_000, 0)
	tbl.Ban(domain.ParseClientID("5.6.7.8"), now, time.Hour)

	assert.False(t, tbl.IsBanned(domain.ParseClientID("5.6.7.9"), now))
}
