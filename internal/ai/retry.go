package ai

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/parthshr370/IntHR/internal/util"
)

// Policy controls retries at the provider boundary. The zero value makes a
// single attempt.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultPolicy matches the provider defaults: three attempts with delays
// growing 1s, 2s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, InitialDelay: time.Second, Multiplier: 2}
}

// Do runs fn until it succeeds, attempts are exhausted, the error is not
// retryable, or the context ends. All attempt errors are combined so none
// is lost.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := p.InitialDelay

	var errs error
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		errs = multierr.Append(errs, err)

		if attempt >= attempts || !Retryable(err) || ctx.Err() != nil {
			return errs
		}
		if err := util.WaitFor(ctx, delay); err != nil {
			return multierr.Append(errs, err)
		}
		if p.Multiplier > 0 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}
}
