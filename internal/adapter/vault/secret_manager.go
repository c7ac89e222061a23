// Package vault resolves runtime secrets (ASR API key, database
// credentials) from HashiCorp Vault's KV v2 engine.
package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault: new client: %w", err)
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

// GetSecret reads a single key from a KV v2 path like "secret/data/asr".
func (sm *SecretManager) GetSecret(path, key string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected data shape at %s", path)
	}

	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: key %s not found at %s", key, path)
	}
	return value, nil
}

func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.GetSecret("secret/data/database", "connection_string")
}

func (sm *SecretManager) GetASRAPIKey() (string, error) {
	return sm.GetSecret("secret/data/asr", "api_key")
}
