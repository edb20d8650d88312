package infra

import (
	"context"

	"abuse-guard/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore conta decisões por capability e resultado.
// O rótulo de cliente fica de fora de propósito (cardinalidade).
type PrometheusStatsStore struct {
	decisions *prometheus.CounterVec
}

func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guard",
		Name:      "decisions_total",
		Help:      "Admission decisions taken by the abuse guard.",
	}, []string{"capability", "outcome"})
	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	return &PrometheusStatsStore{decisions: decisions}, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.decisions.WithLabelValues(ev.Capability.String(), ev.Outcome()).Inc()
	return nil
}

// RegisterBackendGauges expõe o tamanho das tabelas em memória, para acompanhar
// o efeito do sweeper.
func RegisterBackendGauges(reg prometheus.Registerer, b *MemoryBackend) error {
	gauges := []prometheus.Collector{
		tableGauge("global_daily", func() int { return b.GlobalDaily.Len() }),
		tableGauge("tool_daily", func() int { return b.ToolDaily.Len() }),
		tableGauge("tool_minute", func() int { return b.ToolMinute.Len() }),
		tableGauge("bans", func() int { return b.Bans.Len() }),
	}
	for _, g := range gauges {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}

func tableGauge(table string, size func() int) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "guard",
		Name:        "table_entries",
		Help:        "Number of live entries per in-memory table.",
		ConstLabels: prometheus.Labels{"table": table},
	}, func() float64 { return float64(size()) })
}
