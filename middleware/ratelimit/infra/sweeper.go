package infra

import (
	"time"

	"abuse-guard/middleware/ratelimit/domain"

	log "github.com/sirupsen/logrus"
)

// SweepTarget é um store de contadores e a função que dá o bucket atual dele.
type SweepTarget struct {
	Name   string
	Store  *CounterStore
	Bucket BucketFunc
}

// Sweeper remove periodicamente contadores de buckets que já viraram.
//
// Contadores não têm um "ainda vale?" natural na leitura (ao contrário dos bans),
// então sem isso cada (cliente, tool, bucket) visto fica para sempre na memória.
type Sweeper struct {
	targets  []SweepTarget
	interval time.Duration
	clock    domain.Clock
	logger   log.FieldLogger
}

type SweeperOption func(*Sweeper)

func WithSweepClock(c domain.Clock) SweeperOption {
	return func(s *Sweeper) { s.clock = c }
}

func WithSweepLogger(l log.FieldLogger) SweeperOption {
	return func(s *Sweeper) { s.logger = l }
}

func NewSweeper(interval time.Duration, targets []SweepTarget, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		targets:  targets,
		interval: interval,
		clock:    domain.SystemClock,
		logger:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sweeper) Interval() time.Duration { return s.interval }

// Sweep faz uma passada e retorna o total de chaves removidas.
func (s *Sweeper) Sweep() int {
	now := s.clock.Now()
	total := 0
	for _, t := range s.targets {
		current, err := t.Bucket(now)
		if err != nil {
			s.logger.WithError(err).Warn("sweeper: skipping pass")
			return total
		}
		n := t.Store.Sweep(func(k domain.Key) bool {
			return domain.BucketIsStale(k.Bucket(), current)
		})
		if n > 0 {
			s.logger.WithFields(log.Fields{"store": t.Name, "evicted": n}).Debug("sweeper: evicted stale counters")
		}
		total += n
	}
	return total
}

// Start inicia uma goroutine que roda Sweep a cada intervalo.
// Pare cancelando o contexto. Intervalo <= 0 não faz nada.
func (s *Sweeper) Start(ctx DoneContext) {
	if s.interval <= 0 {
		return
	}

	t := time.NewTicker(s.interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar context aqui.
type DoneContext interface {
	Done() <-chan struct{}
}
