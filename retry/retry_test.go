package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifySettings(t *testing.T) {
	for _, tc := range []struct {
		desc          string
		settings      Settings
		expectedError string
	}{
		{
			desc:     "default settings",
			settings: DefaultSettings(),
		},
		{
			desc:          "backoff bad settings",
			settings:      Settings{},
			expectedError: "backoff must be set to >= 0, got 0s",
		},
		{
			desc:          "multiplier bad",
			settings:      Settings{Backoff: time.Second},
			expectedError: "multiplier must be >= 1, got 0",
		},
		{
			desc:          "max backoff bad",
			settings:      Settings{Backoff: time.Second, Multiplier: 5, MaxBackoff: time.Millisecond},
			expectedError: "backoff (1s) must be less than max backoff (1ms)",
		},
		{
			desc:     "everything valid",
			settings: Settings{Backoff: time.Second, Multiplier: 5, MaxBackoff: time.Hour, MaxAttempts: 3},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.settings.Verify()
			if tc.expectedError != "" {
				require.Error(t, err)
				require.EqualError(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRetry(t *testing.T) {
	startTime := time.Date(2020, 01, 01, 0, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		desc             string
		settings         Settings
		expectedDelays   []time.Duration
		expectedContinue bool
	}{
		{
			desc: "fixed delay",
			settings: Settings{
				Backoff:     5 * time.Second,
				Multiplier:  1,
				MaxAttempts: 3,
			},
			expectedDelays: []time.Duration{
				5 * time.Second,
				5 * time.Second,
				5 * time.Second,
			},
			expectedContinue: false,
		},
		{
			desc: "exponential unbounded",
			settings: Settings{
				Backoff:    time.Second,
				Multiplier: 2,
			},
			expectedDelays: []time.Duration{
				time.Second,
				time.Second,
				2 * time.Second,
				4 * time.Second,
			},
			expectedContinue: true,
		},
		{
			desc: "max backoff",
			settings: Settings{
				Backoff:    time.Second,
				Multiplier: 2,
				MaxBackoff: 2 * time.Second,
			},
			expectedDelays: []time.Duration{
				time.Second,
				time.Second,
				2 * time.Second,
				2 * time.Second,
			},
			expectedContinue: true,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			r := mustRetryWithTime(t, startTime, tc.settings)
			for i, expectedDelay := range tc.expectedDelays {
				require.Equal(t, i+1, r.Attempt)
				require.Equal(t, expectedDelay, r.NextDelay())
				if i < len(tc.expectedDelays)-1 {
					require.True(t, r.ShouldContinue())
				}
				r.Next()
			}
			require.Equal(t, tc.expectedContinue, r.ShouldContinue())
		})
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	r := mustRetryWithTime(t, time.Now(), Settings{
		Backoff:     time.Hour,
		Multiplier:  1,
		MaxAttempts: 3,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, r.Wait(ctx), context.Canceled)
}

func mustRetryWithTime(t *testing.T, ti time.Time, settings Settings) *Retry {
	ret, err := NewRetryWithTime(ti, settings)
	require.NoError(t, err)
	return ret
}
