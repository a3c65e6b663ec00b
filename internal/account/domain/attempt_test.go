package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAttemptStatus(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attempt := SignupAttempt{
		CreatedAt:  base,
		ValidUntil: base.Add(CodeValidity),
	}

	tests := []struct {
		name   string
		mutate func(a *SignupAttempt)
		now    time.Time
		want   AttemptStatus
	}{
		{
			name:   "fresh attempt is pending",
			mutate: func(a *SignupAttempt) {},
			now:    base.Add(time.Second),
			want:   AttemptPending,
		},
		{
			name:   "completed is verified regardless of time",
			mutate: func(a *SignupAttempt) { a.Completed = true },
			now:    base.Add(time.Hour),
			want:   AttemptVerified,
		},
		{
			name:   "past validity is expired",
			mutate: func(a *SignupAttempt) {},
			now:    base.Add(CodeValidity),
			want:   AttemptExpired,
		},
		{
			name:   "max retries is exhausted",
			mutate: func(a *SignupAttempt) { a.RetryCount = MaxRetries },
			now:    base.Add(time.Second),
			want:   AttemptExhausted,
		},
		{
			name: "expiry wins over exhaustion",
			mutate: func(a *SignupAttempt) {
				a.RetryCount = MaxRetries
			},
			now:  base.Add(CodeValidity + time.Minute),
			want: AttemptExpired,
		},
		{
			name: "retry below ceiling is still pending",
			mutate: func(a *SignupAttempt) {
				a.RetryCount = MaxRetries - 1
			},
			now:  base.Add(time.Second),
			want: AttemptPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := attempt
			tt.mutate(&a)
			require.Equal(t, tt.want, a.Status(tt.now))
		})
	}
}
