package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"go.uber.org/zap"
)

const (
	SimulatedUserEmail = "user@example.com"
	SimulatedUserName  = "John Doe"
	SimulatedUserImage = "https://lh3.googleusercontent.com/a/default-user=s96-c"
)

// IdentityProvider produces the stable user id the jobs api is keyed by.
type IdentityProvider interface {
	Name() string
}

// SignInProvider completes sign-in in a single call.
type SignInProvider interface {
	IdentityProvider
	SignIn(ctx context.Context) (model.User, error)
}

// OAuthProvider completes sign-in through a browser redirect.
type OAuthProvider interface {
	IdentityProvider
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (model.User, error)
}

func NewIdentityProvider(cfg config.Identity) (IdentityProvider, error) {
	zap.S().Named("auth").Infof("identity provider: '%s'", cfg.Provider)

	switch cfg.Provider {
	case config.GoogleIdentity:
		return NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL), nil
	case config.SimulatedIdentity:
		return NewSimulatedProvider(cfg.SignInDelay), nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Provider)
	}
}

// SimulatedProvider stands in for Google sign-in: after a short delay it
// returns a fixed profile under a fresh "user_<unix millis>" id.
type SimulatedProvider struct {
	delay time.Duration
	now   func() time.Time
}

var _ SignInProvider = (*SimulatedProvider)(nil)

func NewSimulatedProvider(delay time.Duration) *SimulatedProvider {
	return &SimulatedProvider{delay: delay, now: time.Now}
}

func (p *SimulatedProvider) Name() string {
	return config.SimulatedIdentity
}

func (p *SimulatedProvider) SignIn(ctx context.Context) (model.User, error) {
	if p.delay > 0 {
		t := time.NewTimer(p.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return model.User{}, ctx.Err()
		case <-t.C:
		}
	}

	return model.User{
		ID:    fmt.Sprintf("user_%d", p.now().UnixMilli()),
		Email: SimulatedUserEmail,
		Name:  SimulatedUserName,
		Image: SimulatedUserImage,
	}, nil
}
