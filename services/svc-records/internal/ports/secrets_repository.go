package ports

import (
	"context"

	"github.com/hashicorp/vault/api"
)

// SecretsRepository reads secrets, such as database credentials, from a secrets storage backend.
type SecretsRepository interface {
	SetToken(v string)
	GetSecrets(ctx context.Context, path string) (*api.Secret, error)
	WriteWithContext(ctx context.Context, path string, data map[string]any) (*api.Secret, error)
}
