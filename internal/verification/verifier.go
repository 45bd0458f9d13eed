// Package verification decides whether a user's claim to own a social
// account holds. Each platform gets its own Verifier; platforms without a
// dedicated implementation fall back to manual approval.
package verification

import (
	"context"
	"errors"
	"fmt"

	"promote-social.com/promote-social/internal/constants"
	model "promote-social.com/promote-social/internal/models"
)

var (
	ErrNotVerified = errors.New("platform account could not be verified")
	ErrUnavailable = errors.New("platform verifier unavailable")
)

type Verifier interface {
	Verify(ctx context.Context, v *model.PlatformVerification) error
}

// ManualVerifier trusts the caller. It is used when an operator approves a
// request after checking the bio by hand.
type ManualVerifier struct{}

func (ManualVerifier) Verify(ctx context.Context, v *model.PlatformVerification) error {
	if v.VerificationPhrase == "" {
		return fmt.Errorf("%w: empty verification phrase", ErrNotVerified)
	}
	return nil
}

type Registry struct {
	fallback  Verifier
	verifiers map[constants.Platform]Verifier
}

func NewRegistry(fallback Verifier) *Registry {
	if fallback == nil {
		fallback = ManualVerifier{}
	}
	return &Registry{
		fallback:  fallback,
		verifiers: make(map[constants.Platform]Verifier),
	}
}

func (r *Registry) Register(platform constants.Platform, v Verifier) {
	r.verifiers[platform] = v
}

func (r *Registry) For(platform constants.Platform) Verifier {
	if v, ok := r.verifiers[platform]; ok {
		return v
	}
	return r.fallback
}

func (r *Registry) Verify(ctx context.Context, v *model.PlatformVerification) error {
	return r.For(v.Platform).Verify(ctx, v)
}
