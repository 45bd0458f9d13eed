package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	model "promote-social.com/promote-social/internal/models"
)

// BreakerVerifier stops calling a misbehaving verifier after repeated
// infrastructure failures. A plain ErrNotVerified outcome does not count
// against the breaker. Calls refused by the breaker wrap ErrUnavailable.
type BreakerVerifier struct {
	next Verifier
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerVerifier(name string, next Verifier, maxFailures uint32, cooldown time.Duration) *BreakerVerifier {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotVerified)
		},
	}

	return &BreakerVerifier{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BreakerVerifier) Verify(ctx context.Context, v *model.PlatformVerification) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Verify(ctx, v)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func (b *BreakerVerifier) State() gobreaker.State {
	return b.cb.State()
}
