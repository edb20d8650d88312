package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitError_MatchesSentinels(t *testing.T) {
	cases := []struct {
		reason Reason
		target error
	}{
		{ReasonGlobalDaily, ErrGlobalLimitExceeded},
		{ReasonToolDaily, ErrToolDailyLimitExceeded},
		{ReasonToolMinute, ErrToolMinuteLimitExceeded},
		{ReasonBanned, ErrBanned},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", &LimitError{Reason: tc.reason, Limit: 3})
		assert.ErrorIs(t, err, tc.target, tc.reason.String())
		for _, other := range cases {
			if other.target != tc.target {
				assert.False(t, errors.Is(err, other.target))
			}
		}
	}
}

func TestLimitError_MessageReferencesLimit(t *testing.T) {
	err := &LimitError{Reason: ReasonGlobalDaily, Limit: 10}
	assert.Equal(t, "Global daily limit exceeded (10)", err.Error())
}

func TestAsLimitError(t *testing.T) {
	le, ok := AsLimitError(fmt.Errorf("x: %w", &LimitError{Reason: ReasonBanned, RetryAfter: time.Minute}))
	require.True(t, ok)
	assert.Equal(t, ReasonBanned, le.Reason)
	assert.Equal(t, time.Minute, le.RetryAfter)

	_, ok = AsLimitError(errors.New("plain"))
	assert.False(t, ok)
}

func TestNewWindow_NeverNegative(t *testing.T) {
	assert.Equal(t, Window{Used: 3, Limit: 10, Remaining: 7}, NewWindow(3, 10))
	assert.Equal(t, Window{Used: 10, Limit: 10, Remaining: 0}, NewWindow(10, 10))
	assert.Equal(t, Window{Used: 12, Limit: 10, Remaining: 0}, NewWindow(12, 10))
}

func TestLimits_Validate(t *testing.T) {
	assert.NoError(t, DemoLimits().Validate())
	assert.NoError(t, ProductionLimits().Validate())

	l := DemoLimits()
	l.ErrorBanThreshold = 0
	assert.Error(t, l.Validate())
}
