package domain

import (
	"errors"
	"time"
)

// Limits reúne as cotas do guard.
type Limits struct {
	GlobalDaily       uint64
	ToolDaily         uint64
	ToolMinute        uint64
	ErrorBanThreshold uint64
	ErrorBanDuration  time.Duration

	// CleanupInterval é o período do sweeper de contadores (infra.Sweeper).
	// Zero desliga a limpeza.
	CleanupInterval time.Duration
}

// DemoLimits são as cotas usadas em modo demo.
func DemoLimits() Limits {
	return Limits{
		GlobalDaily:       30,
		ToolDaily:         15,
		ToolMinute:        3,
		ErrorBanThreshold: 5,
		ErrorBanDuration:  time.Hour,
		CleanupInterval:   5 * time.Minute,
	}
}

// ProductionLimits são cotas mais apertadas, para quando o backend é a API paga.
func ProductionLimits() Limits {
	return Limits{
		GlobalDaily:       10,
		ToolDaily:         5,
		ToolMinute:        1,
		ErrorBanThreshold: 3,
		ErrorBanDuration:  2 * time.Hour,
		CleanupInterval:   5 * time.Minute,
	}
}

func (l Limits) Validate() error {
	if l.ErrorBanThreshold == 0 {
		return errors.New("error ban threshold must be > 0")
	}
	if l.ErrorBanDuration < 0 {
		return errors.New("error ban duration must be >= 0")
	}
	if l.CleanupInterval < 0 {
		return errors.New("cleanup interval must be >= 0")
	}
	return nil
}
