package domain

import (
	"errors"
	"time"
)

const (
	secondsPerDay    = 86400
	secondsPerMinute = 60

	bucketBits = 24
	bucketMask = 1<<bucketBits - 1
)

// ErrClockBeforeEpoch indica relógio do sistema anterior a 1970.
var ErrClockBeforeEpoch = errors.New("system clock is before the unix epoch")

// Key é a chave composta de um contador:
//
//	[ClientID (32b) | Capability (8b) | bucket & 0xFFFFFF (24b)]
//
// O bucket é truncado em 24 bits; buckets diários dão a volta em ~45 mil anos
// e os de minuto em ~31,9 anos.
type Key uint64

// GenerateKey empacota identidade, capability e bucket em uma chave.
func GenerateKey(id ClientID, c Capability, bucket uint32) Key {
	return Key(uint64(id)<<32 | uint64(c)<<bucketBits | uint64(bucket&bucketMask))
}

func (k Key) Client() ClientID       { return ClientID(k >> 32) }
func (k Key) Capability() Capability { return Capability(k >> bucketBits) }
func (k Key) Bucket() uint32         { return uint32(k & bucketMask) }

// DayBucket retorna floor(unix/86400).
func DayBucket(now time.Time) (uint32, error) {
	sec := now.Unix()
	if sec < 0 {
		return 0, ErrClockBeforeEpoch
	}
	return uint32(sec / secondsPerDay), nil
}

// MinuteBucket retorna floor(unix/60).
func MinuteBucket(now time.Time) (uint32, error) {
	sec := now.Unix()
	if sec < 0 {
		return 0, ErrClockBeforeEpoch
	}
	return uint32(sec / secondsPerMinute), nil
}

// Buckets calcula os dois buckets de uma vez (mesmo instante).
func Buckets(now time.Time) (day, minute uint32, err error) {
	if day, err = DayBucket(now); err != nil {
		return 0, 0, err
	}
	minute, _ = MinuteBucket(now)
	return day, minute, nil
}

// BucketIsStale diz se bucket é anterior a current, tolerando a volta dos 24 bits.
func BucketIsStale(bucket, current uint32) bool {
	dist := (current - bucket) & bucketMask
	return dist != 0 && dist < 1<<(bucketBits-1)
}

// UntilNextDay é o tempo até a virada do bucket diário.
func UntilNextDay(now time.Time) time.Duration {
	return untilNext(now, secondsPerDay)
}

// UntilNextMinute é o tempo até a virada do bucket de minuto.
func UntilNextMinute(now time.Time) time.Duration {
	return untilNext(now, secondsPerMinute)
}

func untilNext(now time.Time, width int64) time.Duration {
	sec := now.Unix()
	if sec < 0 {
		return 0
	}
	return time.Duration(width-sec%width) * time.Second
}
