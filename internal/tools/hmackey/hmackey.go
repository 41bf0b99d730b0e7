// Package hmackey generates journal signing keys in the environment format
// read by the integrity keyring.
package hmackey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/platform/config"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage/integrity"
)

const minKeyBytes = 16

// Config holds configuration for key generation.
type Config struct {
	Bytes int
	// KeyID names the generated key. With Keys set, the new key is appended
	// to that id=secret list and becomes the active key.
	KeyID string
	Keys  string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: 32, KeyID: "v1"}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes")
	fs.StringVar(&cfg.KeyID, "key-id", cfg.KeyID, "id of the generated key")
	fs.StringVar(&cfg.Keys, "rotate", "", "existing id=secret list to rotate from")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates a key, checks that it builds a keyring, and writes the
// environment lines to out.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if cfg.Bytes < minKeyBytes {
		return fmt.Errorf("bytes must be at least %d", minKeyBytes)
	}
	if out == nil {
		return errors.New("output is required")
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" || strings.ContainsAny(keyID, "=,") {
		return errors.New("key id must be non-empty without '=' or ','")
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	secret := hex.EncodeToString(buf)

	env := integrity.Env{Key: secret, KeyID: keyID}
	if keys := strings.TrimSpace(cfg.Keys); keys != "" {
		env = integrity.Env{Keys: keys + "," + keyID + "=" + secret, KeyID: keyID}
	}
	if _, err := env.Keyring(); err != nil {
		return fmt.Errorf("build keyring: %w", err)
	}

	if env.Keys != "" {
		_, err := fmt.Fprintf(out, "%sGAME_EVENT_HMAC_KEYS=%s\n%sGAME_EVENT_HMAC_KEY_ID=%s\n",
			config.EnvPrefix, env.Keys, config.EnvPrefix, keyID)
		return err
	}
	_, err := fmt.Fprintf(out, "%sGAME_EVENT_HMAC_KEY=%s\n%sGAME_EVENT_HMAC_KEY_ID=%s\n",
		config.EnvPrefix, secret, config.EnvPrefix, keyID)
	return err
}
