package secrets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnvProvider_Resolve(t *testing.T) {
	t.Setenv("ODYSSEY_API_KEY", "sk-test-1234567890")

	secret, err := NewEnvProvider("ODYSSEY_API_KEY").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-test-1234567890", secret.Value)
	assert.Equal(t, "ODYSSEY_API_KEY", secret.Source)
}

func TestEnvProvider_Missing(t *testing.T) {
	p := &EnvProvider{key: "ODYSSEY_API_KEY", lookup: func(string) (string, bool) { return "", false }}

	_, err := p.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrSecretMissing)
	assert.Contains(t, err.Error(), "ODYSSEY_API_KEY")
}

func TestEnvProvider_Empty(t *testing.T) {
	t.Setenv("ODYSSEY_API_KEY", "")

	_, err := NewEnvProvider("ODYSSEY_API_KEY").Resolve(context.Background())
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestEnvProvider_CaseSensitive(t *testing.T) {
	p := &EnvProvider{key: "ODYSSEY_API_KEY", lookup: func(k string) (string, bool) {
		if k == "odyssey_api_key" {
			return "lower", true
		}
		return "", false
	}}

	_, err := p.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestNew_UnknownSource(t *testing.T) {
	_, err := New(context.Background(), config.SecretsConfig{Source: "vault"}, discardLogger())
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestResolve_Env(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "abc")

	secret, err := Resolve(context.Background(), config.SecretsConfig{Source: config.SourceEnv, Env: "CUSTOM_KEY"}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "abc", secret.Value)
}

type fakeAccessor struct {
	gotName string
	data    []byte
	err     error
	closed  bool
}

func (f *fakeAccessor) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.gotName = req.GetName()
	if f.err != nil {
		return nil, f.err
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Name:    req.GetName(),
		Payload: &secretmanagerpb.SecretPayload{Data: f.data},
	}, nil
}

func (f *fakeAccessor) Close() error {
	f.closed = true
	return nil
}

func TestGoogleSecretManagerProvider_Resolve(t *testing.T) {
	fake := &fakeAccessor{data: []byte("sk-gsm-42")}
	p := newGoogleSecretManagerProvider(fake, config.SecretsConfig{ProjectID: "demo", Name: "odyssey"}, discardLogger())

	secret, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-gsm-42", secret.Value)
	assert.Equal(t, "projects/demo/secrets/odyssey/versions/latest", fake.gotName)

	require.NoError(t, p.Close())
	assert.True(t, fake.closed)
}

func TestGoogleSecretManagerProvider_EmptyPayload(t *testing.T) {
	fake := &fakeAccessor{}
	p := newGoogleSecretManagerProvider(fake, config.SecretsConfig{ProjectID: "demo", Name: "odyssey", Version: "3"}, discardLogger())

	_, err := p.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrSecretMissing)
	assert.Equal(t, "projects/demo/secrets/odyssey/versions/3", fake.gotName)
}

func TestGoogleSecretManagerProvider_AccessError(t *testing.T) {
	fake := &fakeAccessor{err: errors.New("permission denied")}
	p := newGoogleSecretManagerProvider(fake, config.SecretsConfig{ProjectID: "demo", Name: "odyssey"}, discardLogger())

	_, err := p.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrProviderFailed)
	assert.Contains(t, err.Error(), "permission denied")
}
