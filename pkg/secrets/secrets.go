// Package secrets resolves the API key injected into the front-end build.
//
// The key is read exactly once, before any file is touched, and handed to
// the builder as a core.Secret. Two sources exist: a named environment
// variable (the default) and a Google Secret Manager secret version.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/mywio/odyssey-build/pkg/core"
)

var (
	ErrSecretMissing  = errors.New("missing secret")
	ErrUnknownSource  = errors.New("unknown secret source")
	ErrProviderFailed = errors.New("secret provider failed")
)

// Provider resolves the build secret.
type Provider interface {
	Name() string
	Resolve(ctx context.Context) (core.Secret, error)
	Close() error
}

// New builds the provider selected by cfg.Source.
func New(ctx context.Context, cfg config.SecretsConfig, logger *slog.Logger) (Provider, error) {
	switch cfg.Source {
	case "", config.SourceEnv:
		return NewEnvProvider(cfg.Env), nil
	case config.SourceGoogleSecretManager:
		return NewGoogleSecretManagerProvider(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// Resolve is a convenience wrapper that builds a provider, resolves the
// secret and closes the provider.
func Resolve(ctx context.Context, cfg config.SecretsConfig, logger *slog.Logger) (core.Secret, error) {
	p, err := New(ctx, cfg, logger)
	if err != nil {
		return core.Secret{}, err
	}
	defer p.Close()

	secret, err := p.Resolve(ctx)
	if err != nil {
		return core.Secret{}, err
	}
	logger.Debug("secret resolved", "provider", p.Name(), "source", secret.Source, "secret", secret)
	return secret, nil
}
