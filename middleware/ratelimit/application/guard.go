package application

import (
	"errors"
	"time"

	"abuse-guard/middleware/ratelimit/domain"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Stores são as tabelas compartilhadas que o Guard usa.
type Stores struct {
	GlobalDaily domain.CounterStore
	ToolDaily   domain.CounterStore
	// ToolMinute também guarda os contadores de erro (CapabilityError).
	ToolMinute domain.CounterStore
	Bans       domain.BanTable
}

func (s Stores) validate() error {
	if s.GlobalDaily == nil || s.ToolDaily == nil || s.ToolMinute == nil || s.Bans == nil {
		return errors.New("guard: all stores are required")
	}
	return nil
}

// Guard é a fachada de admissão.
//
// Check e Increment não são atômicos como par: requisições concorrentes do
// mesmo cliente podem passar juntas pelo check e estourar a cota em até
// (concorrência - 1). É um limite "soft", aceito.
type Guard struct {
	limits domain.Limits
	stores Stores
	clock  domain.Clock
	logger log.FieldLogger

	banLog *rate.Sometimes
}

type Option func(*Guard)

func WithClock(c domain.Clock) Option {
	return func(g *Guard) { g.clock = c }
}

func WithLogger(l log.FieldLogger) Option {
	return func(g *Guard) { g.logger = l }
}

func NewGuard(limits domain.Limits, stores Stores, opts ...Option) (*Guard, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if err := stores.validate(); err != nil {
		return nil, err
	}
	g := &Guard{
		limits: limits,
		stores: stores,
		clock:  domain.SystemClock,
		logger: log.StandardLogger(),
		// um atacante em loop gera um ban por minuto; não precisamos de todos no log.
		banLog: &rate.Sometimes{First: 10, Interval: time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Guard) Limits() domain.Limits { return g.limits }

// IsBanned consulta a tabela de bans, removendo o ban se já expirou.
func (g *Guard) IsBanned(ip string) bool {
	return g.stores.Bans.IsBanned(domain.ParseClientID(ip), g.clock.Now())
}

// CheckGlobal falha quando o contador global do dia já atingiu a cota.
// Não altera estado.
func (g *Guard) CheckGlobal(ip string) error {
	now := g.clock.Now()
	day, err := domain.DayBucket(now)
	if err != nil {
		return err
	}

	k := domain.GenerateKey(domain.ParseClientID(ip), domain.CapabilityGlobal, day)
	if g.stores.GlobalDaily.Get(k) >= g.limits.GlobalDaily {
		return &domain.LimitError{
			Reason:     domain.ReasonGlobalDaily,
			Limit:      g.limits.GlobalDaily,
			RetryAfter: domain.UntilNextDay(now),
		}
	}
	return nil
}

// CheckTool verifica a cota diária e depois a de minuto da tool.
// A primeira que falhar define o motivo. Não altera estado.
func (g *Guard) CheckTool(ip string, c domain.Capability) error {
	now := g.clock.Now()
	day, minute, err := domain.Buckets(now)
	if err != nil {
		return err
	}
	id := domain.ParseClientID(ip)

	if g.stores.ToolDaily.Get(domain.GenerateKey(id, c, day)) >= g.limits.ToolDaily {
		return &domain.LimitError{
			Reason:     domain.ReasonToolDaily,
			Limit:      g.limits.ToolDaily,
			RetryAfter: domain.UntilNextDay(now),
		}
	}
	if g.stores.ToolMinute.Get(domain.GenerateKey(id, c, minute)) >= g.limits.ToolMinute {
		return &domain.LimitError{
			Reason:     domain.ReasonToolMinute,
			Limit:      g.limits.ToolMinute,
			RetryAfter: domain.UntilNextMinute(now),
		}
	}
	return nil
}

// Admit roda a cadeia de checagens de uma requisição (ban, global, tool) e
// devolve a primeira recusa. Não incrementa nada.
func (g *Guard) Admit(ip string, c domain.Capability) error {
	if g.IsBanned(ip) {
		le := &domain.LimitError{Reason: domain.ReasonBanned}
		if until, ok := g.stores.Bans.Expiry(domain.ParseClientID(ip)); ok {
			le.RetryAfter = until.Sub(g.clock.Now())
		}
		return le
	}
	if err := g.CheckGlobal(ip); err != nil {
		return err
	}
	return g.CheckTool(ip, c)
}

// Increment conta uma requisição aceita nas três janelas.
// Nunca falha; com relógio inválido o incremento é descartado e logado.
func (g *Guard) Increment(ip string, c domain.Capability) {
	day, minute, err := domain.Buckets(g.clock.Now())
	if err != nil {
		g.logger.WithError(err).Error("guard: dropping increment")
		return
	}
	id := domain.ParseClientID(ip)

	g.stores.GlobalDaily.Increment(domain.GenerateKey(id, domain.CapabilityGlobal, day))
	g.stores.ToolDaily.Increment(domain.GenerateKey(id, c, day))
	g.stores.ToolMinute.Increment(domain.GenerateKey(id, c, minute))
}

// RecordError conta uma requisição inválida no minuto corrente e bane o
// cliente ao atingir ErrorBanThreshold. A contagem é por cliente, não por tool.
func (g *Guard) RecordError(ip string, c domain.Capability) {
	now := g.clock.Now()
	minute, err := domain.MinuteBucket(now)
	if err != nil {
		g.logger.WithError(err).Error("guard: dropping error record")
		return
	}
	id := domain.ParseClientID(ip)

	count := g.stores.ToolMinute.Increment(domain.GenerateKey(id, domain.CapabilityError, minute))
	if count < g.limits.ErrorBanThreshold {
		return
	}

	g.stores.Bans.Ban(id, now, g.limits.ErrorBanDuration)
	g.banLog.Do(func() {
		g.logger.WithFields(log.Fields{
			"client":     id.String(),
			"capability": c.String(),
			"errors":     count,
			"duration":   g.limits.ErrorBanDuration.String(),
		}).Warn("guard: client banned after repeated invalid requests")
	})
}

// Remaining monta o relatório de uso. Só lê os contadores; a leitura do ban
// pode remover um ban expirado, igual a IsBanned.
func (g *Guard) Remaining(ip string, c domain.Capability) (domain.UsageSnapshot, error) {
	day, minute, err := domain.Buckets(g.clock.Now())
	if err != nil {
		return domain.UsageSnapshot{}, err
	}
	id := domain.ParseClientID(ip)

	return domain.UsageSnapshot{
		GlobalDaily: domain.NewWindow(g.stores.GlobalDaily.Get(domain.GenerateKey(id, domain.CapabilityGlobal, day)), g.limits.GlobalDaily),
		ToolDaily:   domain.NewWindow(g.stores.ToolDaily.Get(domain.GenerateKey(id, c, day)), g.limits.ToolDaily),
		ToolMinute:  domain.NewWindow(g.stores.ToolMinute.Get(domain.GenerateKey(id, c, minute)), g.limits.ToolMinute),
		Banned:      g.IsBanned(ip),
	}, nil
}
