package secrets

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/mywio/odyssey-build/pkg/core"
)

// versionAccessor is the subset of the Secret Manager client used here.
type versionAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// GoogleSecretManagerProvider reads the secret from a Secret Manager version.
type GoogleSecretManagerProvider struct {
	client versionAccessor
	name   string
	logger *slog.Logger
}

// NewGoogleSecretManagerProvider dials Secret Manager with application
// default credentials.
func NewGoogleSecretManagerProvider(ctx context.Context, cfg config.SecretsConfig, logger *slog.Logger) (*GoogleSecretManagerProvider, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: secret manager client: %v", ErrProviderFailed, err)
	}
	return newGoogleSecretManagerProvider(client, cfg, logger), nil
}

func newGoogleSecretManagerProvider(client versionAccessor, cfg config.SecretsConfig, logger *slog.Logger) *GoogleSecretManagerProvider {
	version := cfg.Version
	if version == "" {
		version = config.DefaultSecretVersion
	}
	return &GoogleSecretManagerProvider{
		client: client,
		name:   fmt.Sprintf("projects/%s/secrets/%s/versions/%s", cfg.ProjectID, cfg.Name, version),
		logger: logger.With("component", "google_secret_manager"),
	}
}

func (p *GoogleSecretManagerProvider) Name() string {
	return config.SourceGoogleSecretManager
}

func (p *GoogleSecretManagerProvider) Resolve(ctx context.Context) (core.Secret, error) {
	p.logger.Debug("accessing secret version", "name", p.name)

	resp, err := p.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: p.name})
	if err != nil {
		return core.Secret{}, fmt.Errorf("%w: access %s: %v", ErrProviderFailed, p.name, err)
	}

	value := string(resp.GetPayload().GetData())
	if value == "" {
		return core.Secret{}, fmt.Errorf("%w: %s has an empty payload", ErrSecretMissing, p.name)
	}
	return core.NewSecret(value, p.name), nil
}

func (p *GoogleSecretManagerProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
