package infra

import (
	"context"
	"testing"
	"time"

	"abuse-guard/middleware/ratelimit/domain"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestSweeper_EvictsOnlyStaleBuckets(t *testing.T) {
	clock := &fakeClock{now: time.Unix(86400*20000+600, 0)}
	be := NewMemoryBackend()

	day, minute, _ := domain.Buckets(clock.now)
	id := domain.ParseClientID("1.2.3.4")

	be.GlobalDaily.Increment(domain.GenerateKey(id, domain.CapabilityGlobal, day))
	be.GlobalDaily.Increment(domain.GenerateKey(id, domain.CapabilityGlobal, day-1))
	be.ToolDaily.Increment(domain.GenerateKey(id, domain.CapabilityChat, day))
	be.ToolMinute.Increment(domain.GenerateKey(id, domain.CapabilityChat, minute))
	be.ToolMinute.Increment(domain.GenerateKey(id, domain.CapabilityChat, minute-1))
	be.ToolMinute.Increment(domain.GenerateKey(id, domain.CapabilityError, minute-5))

	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	s := NewSweeper(time.Minute, be.SweepTargets(), WithSweepClock(clock), WithSweepLogger(logger))

	assert.Equal(t, 3, s.Sweep())
	assert.Equal(t, 1, be.GlobalDaily.Len())
	assert.Equal(t, 1, be.ToolDaily.Len())
	assert.Equal(t, 1, be.ToolMinute.Len())
	assert.Equal(t, uint64(1), be.ToolMinute.Get(domain.GenerateKey(id, domain.CapabilityChat, minute)))
	assert.NotEmpty(t, hook.AllEntries())

	// nada mais a limpar
	assert.Equal(t, 0, s.Sweep())
}

func TestSweeper_ClockBeforeEpochSkipsPass(t *testing.T) {
	be := NewMemoryBackend()
	be.ToolMinute.Increment(domain.GenerateKey(1, domain.CapabilityChat, 1))

	logger, hook := test.NewNullLogger()
	s := NewSweeper(time.Minute, be.SweepTargets(), WithSweepClock(&fakeClock{now: time.Unix(-10, 0)}), WithSweepLogger(logger))

	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, be.ToolMinute.Len())
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	}
}

func TestSweeper_StartRunsUntilCancel(t *testing.T) {
	clock := &fakeClock{now: time.Unix(86400*20000, 0)}
	be := NewMemoryBackend()
	_, minute, _ := domain.Buckets(clock.now)
	be.ToolMinute.Increment(domain.GenerateKey(1, domain.CapabilityChat, minute-1))

	logger, _ := test.NewNullLogger()
	s := NewSweeper(5*time.Millisecond, be.SweepTargets(), WithSweepClock(clock), WithSweepLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool { return be.ToolMinute.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSweeper_ZeroIntervalDoesNotStart(t *testing.T) {
	be := NewMemoryBackend()
	be.ToolMinute.Increment(domain.GenerateKey(1, domain.CapabilityChat, 1))

	s := NewSweeper(0, be.SweepTargets())
	s.Start(context.Background())

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, be.ToolMinute.Len())
}
