package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey_Layout(t *testing.T) {
	k := GenerateKey(ParseClientID("1.2.3.4"), CapabilityCode, 0xABCDEF)
	assert.Equal(t, Key(0x01020304_03_ABCDEF), k)
	assert.Equal(t, ParseClientID("1.2.3.4"), k.Client())
	assert.Equal(t, CapabilityCode, k.Capability())
	assert.Equal(t, uint32(0xABCDEF), k.Bucket())
}

func TestGenerateKey_TruncatesBucketTo24Bits(t *testing.T) {
	a := GenerateKey(7, CapabilityChat, 0x01_000005)
	b := GenerateKey(7, CapabilityChat, 0x000005)
	assert.Equal(t, a, b)
}

func TestGenerateKey_Injective(t *testing.T) {
	ids := []ClientID{0, 1, 0x7F000001, 0xFFFFFFFF}
	caps := []Capability{CapabilityGlobal, CapabilityChat, CapabilityBot, CapabilityError}
	buckets := []uint32{0, 1, 20000, 29_000_000 & bucketMask, bucketMask}

	seen := make(map[Key][3]uint64)
	for _, id := range ids {
		for _, c := range caps {
			for _, b := range buckets {
				k := GenerateKey(id, c, b)
				triple := [3]uint64{uint64(id), uint64(c), uint64(b)}
				if prev, ok := seen[k]; ok {
					t.Fatalf("key collision: %v and %v -> %x", prev, triple, k)
				}
				seen[k] = triple
			}
		}
	}
	assert.Len(t, seen, len(ids)*len(caps)*len(buckets))
}

func TestBuckets(t *testing.T) {
	now := time.Unix(86400*20000+3600+125, 0)

	day, minute, err := Buckets(now)
	require.NoError(t, err)
	assert.Equal(t, uint32(20000), day)
	assert.Equal(t, uint32((86400*20000+3600+125)/60), minute)
}

func TestBuckets_BeforeEpoch(t *testing.T) {
	_, _, err := Buckets(time.Unix(-1, 0))
	assert.ErrorIs(t, err, ErrClockBeforeEpoch)

	_, err = MinuteBucket(time.Unix(-120, 0))
	assert.ErrorIs(t, err, ErrClockBeforeEpoch)
}

func TestBucketIsStale(t *testing.T) {
	assert.False(t, BucketIsStale(10, 10))
	assert.True(t, BucketIsStale(9, 10))
	assert.False(t, BucketIsStale(11, 10), "future bucket must be kept")
	// volta dos 24 bits: bucket logo antes da volta continua "antigo"
	assert.True(t, BucketIsStale(bucketMask, 0))
}

func TestUntilNext(t *testing.T) {
	now := time.Unix(86400*3+60*5+15, 0)
	assert.Equal(t, 45*time.Second, UntilNextMinute(now))
	assert.Equal(t, time.Duration(86400-60*5-15)*time.Second, UntilNextDay(now))
}
