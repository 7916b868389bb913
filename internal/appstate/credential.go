package appstate

import (
	"context"
	"strings"

	"github.com/abhisek/englishbuddy/internal/store"
)

// CredentialKey is the settings key the API key is stored under.
const CredentialKey = "ENGLISH_BUDDY_KEY"

// Credentials persists the single API key.
type Credentials interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// SettingsCredentials keeps the key in the settings table.
type SettingsCredentials struct {
	Repo store.SettingsRepo
}

func (c SettingsCredentials) Load(ctx context.Context) (string, bool, error) {
	v, ok, err := c.Repo.Get(ctx, CredentialKey)
	if err != nil || !ok {
		return "", false, err
	}
	v = strings.TrimSpace(v)
	return v, v != "", nil
}

func (c SettingsCredentials) Save(ctx context.Context, key string) error {
	return c.Repo.Set(ctx, CredentialKey, strings.TrimSpace(key))
}

func (c SettingsCredentials) Clear(ctx context.Context) error {
	return c.Repo.Delete(ctx, CredentialKey)
}

// MemoryCredentials holds the key for the life of the process only.
type MemoryCredentials struct {
	key string
}

func (c *MemoryCredentials) Load(context.Context) (string, bool, error) {
	return c.key, c.key != "", nil
}

func (c *MemoryCredentials) Save(_ context.Context, key string) error {
	c.key = strings.TrimSpace(key)
	return nil
}

func (c *MemoryCredentials) Clear(context.Context) error {
	c.key = ""
	return nil
}
