package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/mywio/odyssey-build/pkg/core"
)

// EnvProvider reads the secret from one environment variable.
type EnvProvider struct {
	key    string
	lookup func(string) (string, bool)
}

// NewEnvProvider returns a provider reading key from the process environment.
func NewEnvProvider(key string) *EnvProvider {
	return &EnvProvider{key: key, lookup: os.LookupEnv}
}

func (p *EnvProvider) Name() string {
	return "env"
}

func (p *EnvProvider) Resolve(ctx context.Context) (core.Secret, error) {
	value, ok := p.lookup(p.key)
	if !ok || value == "" {
		return core.Secret{}, fmt.Errorf("%w: %s environment variable is not set", ErrSecretMissing, p.key)
	}
	return core.NewSecret(value, p.key), nil
}

func (p *EnvProvider) Close() error {
	return nil
}
