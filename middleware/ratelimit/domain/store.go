package domain

import "time"

// CounterStore é um mapa concorrente de Key para contador.
//
// Increment deve ser atômico por chave e não pode serializar chaves diferentes.
type CounterStore interface {
	Get(Key) uint64
	Increment(Key) uint64
}

// BanTable guarda o fim do ban de cada cliente.
//
// IsBanned remove a entrada quando now >= expiração (expiração preguiçosa).
// Ban sobrescreve qualquer ban anterior: o prazo sempre recomeça de now.
type BanTable interface {
	IsBanned(id ClientID, now time.Time) bool
	Ban(id ClientID, now time.Time, d time.Duration)
	Expiry(id ClientID) (time.Time, bool)
}

// Clock permite simular o tempo nos testes.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock usa time.Now.
var SystemClock Clock = systemClock{}
