package domain

import (
	"errors"
	"fmt"
	"time"
)

// Reason identifica qual camada do guard recusou a requisição.
type Reason uint8

const (
	ReasonGlobalDaily Reason = iota + 1
	ReasonToolDaily
	ReasonToolMinute
	ReasonBanned
)

func (r Reason) String() string {
	switch r {
	case ReasonGlobalDaily:
		return "global_daily"
	case ReasonToolDaily:
		return "tool_daily"
	case ReasonToolMinute:
		return "tool_minute"
	case ReasonBanned:
		return "banned"
	default:
		return "unknown"
	}
}

var (
	ErrGlobalLimitExceeded     = errors.New("global daily limit exceeded")
	ErrToolDailyLimitExceeded  = errors.New("tool daily limit exceeded")
	ErrToolMinuteLimitExceeded = errors.New("too many requests per minute")
	ErrBanned                  = errors.New("client is temporarily banned")
)

// LimitError é a recusa de admissão devolvida ao chamador.
// Compare com errors.Is contra os sentinels acima.
type LimitError struct {
	Reason Reason
	// Limit é a cota configurada (zero para ReasonBanned).
	Limit uint64
	// RetryAfter é o tempo até a virada do bucket ou o fim do ban.
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	switch e.Reason {
	case ReasonGlobalDaily:
		return fmt.Sprintf("Global daily limit exceeded (%d)", e.Limit)
	case ReasonToolDaily:
		return fmt.Sprintf("Tool daily limit exceeded (%d)", e.Limit)
	case ReasonToolMinute:
		return fmt.Sprintf("Too many requests per minute (%d)", e.Limit)
	case ReasonBanned:
		return "Too many invalid requests, try again later"
	default:
		return "request rejected"
	}
}

func (e *LimitError) Unwrap() error {
	switch e.Reason {
	case ReasonGlobalDaily:
		return ErrGlobalLimitExceeded
	case ReasonToolDaily:
		return ErrToolDailyLimitExceeded
	case ReasonToolMinute:
		return ErrToolMinuteLimitExceeded
	case ReasonBanned:
		return ErrBanned
	default:
		return nil
	}
}

// AsLimitError é um atalho para errors.As.
func AsLimitError(err error) (*LimitError, bool) {
	var le *LimitError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
