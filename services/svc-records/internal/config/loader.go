package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/vault/api"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cast"
)

var ErrSecretsDisabled = errors.New("secret storage is not enabled")

// Loader overlays secrets read from Vault onto an env-derived ServiceConfig.
type Loader struct {
	cfg         *ServiceConfig
	secretsRepo ports.SecretsRepository
}

func NewLoader(cfg *ServiceConfig, secretsRepo ports.SecretsRepository) *Loader {
	return &Loader{
		cfg:         cfg,
		secretsRepo: secretsRepo,
	}
}

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if len(ServiceVersion) != 0 {
		cfg.App.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.App.CommitSHA = CommitSHA
	}

	return cfg, nil
}

// Load authenticates against Vault and applies the secrets stored under the
// service mount path, returning the secret version that was applied.
func (l *Loader) Load(ctx context.Context) (uint, error) {
	if !l.cfg.SecretsStorage.Enabled {
		return 0, ErrSecretsDisabled
	}

	if err := l.authenticate(ctx); err != nil {
		return 0, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	secret, err := l.readSecret(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load secrets from Vault: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return 0, nil
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("invalid secret format at %s, missing 'data' key", l.secretPath())
	}

	l.apply(data)

	metadata, _ := secret.Data["metadata"].(map[string]any)

	return secretVersion(metadata)
}

// DumpConfig writes the effective configuration as indented JSON; credentials are excluded by their tags.
func (l *Loader) DumpConfig(w io.Writer) error {
	configJSON, err := json.MarshalIndent(l.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n", configJSON)

	return err
}

func (l *Loader) authenticate(ctx context.Context) error {
	storage := l.cfg.SecretsStorage

	switch strings.ToLower(storage.AuthMethod) {
	case "token":
		if storage.Token == "" {
			return errors.New("token is required for token auth method")
		}

		l.secretsRepo.SetToken(storage.Token)

		return nil

	case "approle":
		if storage.RoleID == "" || storage.SecretID == "" {
			return errors.New("role_id and secret_id are required for approle auth method")
		}

		resp, err := l.secretsRepo.WriteWithContext(ctx, "auth/approle/login", map[string]any{
			"role_id":   storage.RoleID,
			"secret_id": storage.SecretID,
		})
		if err != nil {
			return fmt.Errorf("failed to authenticate via approle: %w", err)
		}

		if resp == nil || resp.Auth == nil {
			return errors.New("no auth info returned from Vault")
		}

		l.secretsRepo.SetToken(resp.Auth.ClientToken)

		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", storage.AuthMethod)
	}
}

func (l *Loader) readSecret(ctx context.Context) (*api.Secret, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.SecretsStorage.Timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second

	return backoff.Retry(ctx, func() (*api.Secret, error) {
		return l.secretsRepo.GetSecrets(ctx, l.secretPath())
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(l.cfg.SecretsStorage.MaxRetries+1),
	)
}

func (l *Loader) secretPath() string {
	return fmt.Sprintf("apps/data/%s", l.cfg.SecretsStorage.MountPath)
}

func (l *Loader) apply(data map[string]any) {
	for key, value := range data {
		str, err := cast.ToStringE(value)
		if err != nil || str == "" {
			continue
		}

		switch key {
		case "POSTGRES_HOST":
			l.cfg.Database.Host = str
		case "POSTGRES_USERNAME":
			l.cfg.Database.Username = str
		case "POSTGRES_PASSWORD":
			l.cfg.Database.Password = str
		case "POSTGRES_DATABASE":
			l.cfg.Database.Database = str
		case "CACHE_PASSWORD":
			l.cfg.Cache.Password = str
		}
	}
}

func secretVersion(metadata map[string]any) (uint, error) {
	if metadata == nil {
		return 0, nil
	}

	currentVersion, ok := metadata["version"]
	if !ok {
		return 0, nil
	}

	version, err := cast.ToUintE(currentVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to parse version: %w", err)
	}

	return version, nil
}
