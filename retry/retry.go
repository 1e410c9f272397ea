package retry

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

type Settings struct {
	// Backoff is the delay before the second attempt. Subsequent delays
	// are multiplied by Multiplier, capped at MaxBackoff if set.
	Backoff     time.Duration
	Multiplier  int
	MaxBackoff  time.Duration
	MaxAttempts int
}

func (s Settings) Verify() error {
	if s.Backoff <= 0 {
		return errors.Newf("backoff must be set to >= 0, got %s", s.Backoff)
	}
	if s.Multiplier < 1 {
		return errors.Newf("multiplier must be >= 1, got %d", s.Multiplier)
	}
	if s.MaxBackoff > 0 && s.Backoff > s.MaxBackoff {
		return errors.Newf("backoff (%s) must be less than max backoff (%s)", s.Backoff, s.MaxBackoff)
	}
	if s.MaxAttempts < 0 {
		return errors.Newf("max attempts must be >= 0, got %d", s.MaxAttempts)
	}
	return nil
}

// DefaultSettings matches the delivery policy the API server is provisioned
// for: three attempts per table with a constant five second pause.
func DefaultSettings() Settings {
	return Settings{
		Backoff:     5 * time.Second,
		Multiplier:  1,
		MaxAttempts: 3,
	}
}

type Retry struct {
	Attempt   int
	StartTime time.Time

	settings  Settings
	nextDelay time.Duration
}

func NewRetry(settings Settings) (*Retry, error) {
	return NewRetryWithTime(time.Now(), settings)
}

func NewRetryWithTime(t time.Time, settings Settings) (*Retry, error) {
	if err := settings.Verify(); err != nil {
		return nil, err
	}
	return &Retry{
		Attempt:   1,
		StartTime: t,
		settings:  settings,
		nextDelay: settings.Backoff,
	}, nil
}

func (r *Retry) ShouldContinue() bool {
	if r.settings.MaxAttempts == 0 {
		return true
	}
	return r.Attempt < r.settings.MaxAttempts
}

// Next advances to the following attempt, computing the delay that precedes it.
func (r *Retry) Next() {
	delay := r.settings.Backoff * time.Duration(math.Pow(float64(r.settings.Multiplier), float64(r.Attempt-1)))
	if r.settings.MaxBackoff > 0 && delay > r.settings.MaxBackoff {
		delay = r.settings.MaxBackoff
	}
	r.Attempt++
	r.nextDelay = delay
}

// NextDelay reports the pause preceding the current attempt.
func (r *Retry) NextDelay() time.Duration {
	return r.nextDelay
}

// Wait blocks for the delay computed by the last Next call. It returns early
// with the context error if the context is cancelled mid-delay.
func (r *Retry) Wait(ctx context.Context) error {
	t := time.NewTimer(r.nextDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
