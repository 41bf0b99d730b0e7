package integrity

import (
	"fmt"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/platform/config"
)

const defaultKeyID = "v1"

// Env holds the journal signing keys. Keys is a comma separated id=secret
// list; Key is a single secret stored under KeyID.
type Env struct {
	Keys  string `env:"GAME_EVENT_HMAC_KEYS"`
	Key   string `env:"GAME_EVENT_HMAC_KEY"`
	KeyID string `env:"GAME_EVENT_HMAC_KEY_ID"`
}

// KeyringFromEnv loads the HMAC keyring configuration from environment variables.
func KeyringFromEnv() (*Keyring, error) {
	var cfg Env
	if err := config.ParsePrefixedEnv(&cfg); err != nil {
		return nil, err
	}
	return cfg.Keyring()
}

// Keyring builds the keyring described by the environment values.
func (e Env) Keyring() (*Keyring, error) {
	keyID := strings.TrimSpace(e.KeyID)
	if keyID == "" {
		keyID = defaultKeyID
	}

	keySpec := strings.TrimSpace(e.Keys)
	if keySpec == "" {
		raw := strings.TrimSpace(e.Key)
		if raw == "" {
			return nil, fmt.Errorf("%sGAME_EVENT_HMAC_KEY is required", config.EnvPrefix)
		}
		return NewKeyring(map[string][]byte{keyID: []byte(raw)}, keyID)
	}

	keys := make(map[string][]byte)
	for _, entry := range strings.Split(keySpec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, value, ok := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		value = strings.TrimSpace(value)
		if !ok || id == "" || value == "" {
			return nil, fmt.Errorf("invalid %sGAME_EVENT_HMAC_KEYS entry", config.EnvPrefix)
		}
		keys[id] = []byte(value)
	}
	return NewKeyring(keys, keyID)
}
