package integrity

import (
	"crypto/hkdf"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrKeyringRequired indicates signing or verifying without a keyring.
	ErrKeyringRequired = errors.New("hmac keyring is not configured")
	// ErrKeyUnknown indicates a signature made with a key the ring lacks.
	ErrKeyUnknown = errors.New("signature key id is unknown")
	// ErrSignatureMismatch indicates a chain hash that does not match its
	// signature.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrGameIDRequired indicates a missing game id.
	ErrGameIDRequired = errors.New("game id is required")
)

// Signature is the journal signature over one chain hash.
type Signature struct {
	KeyID string
	MAC   string
}

// Keyring holds root signing keys by id. Signatures use the active key;
// retired keys stay so older journal rows still verify. Each game signs
// with its own key derived from the root.
type Keyring struct {
	roots  map[string][]byte
	active string

	mu      sync.Mutex
	derived map[string][]byte
}

// NewKeyring builds a keyring signing with activeKeyID.
func NewKeyring(keys map[string][]byte, activeKeyID string) (*Keyring, error) {
	if len(keys) == 0 {
		return nil, errors.New("hmac keys are required")
	}
	activeKeyID = strings.TrimSpace(activeKeyID)
	if activeKeyID == "" {
		return nil, errors.New("active hmac key id is required")
	}
	roots := make(map[string][]byte, len(keys))
	for id, key := range keys {
		if len(key) == 0 {
			return nil, fmt.Errorf("hmac key %q is empty", id)
		}
		roots[id] = append([]byte(nil), key...)
	}
	if _, ok := roots[activeKeyID]; !ok {
		return nil, fmt.Errorf("active hmac key id %q is not configured", activeKeyID)
	}
	return &Keyring{roots: roots, active: activeKeyID, derived: map[string][]byte{}}, nil
}

// ActiveKeyID returns the id new signatures carry.
func (k *Keyring) ActiveKeyID() string {
	if k == nil {
		return ""
	}
	return k.active
}

// Sign signs chainHash for gameID with the active key.
func (k *Keyring) Sign(gameID, chainHash string) (Signature, error) {
	if k == nil {
		return Signature{}, ErrKeyringRequired
	}
	key, err := k.gameKey(k.active, gameID)
	if err != nil {
		return Signature{}, err
	}
	return Signature{KeyID: k.active, MAC: mac(key, chainHash)}, nil
}

// Verify checks sig against chainHash for gameID.
func (k *Keyring) Verify(gameID, chainHash string, sig Signature) error {
	if k == nil {
		return ErrKeyringRequired
	}
	key, err := k.gameKey(strings.TrimSpace(sig.KeyID), gameID)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(mac(key, chainHash)), []byte(sig.MAC)) {
		return ErrSignatureMismatch
	}
	return nil
}

// gameKey derives, once per key id and game, the key that signs the game's
// journal.
func (k *Keyring) gameKey(keyID, gameID string) ([]byte, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, ErrGameIDRequired
	}
	root, ok := k.roots[keyID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyUnknown, keyID)
	}
	cacheKey := keyID + "\x00" + gameID

	k.mu.Lock()
	defer k.mu.Unlock()
	if key, ok := k.derived[cacheKey]; ok {
		return key, nil
	}
	key, err := hkdf.Key(sha256.New, root, nil, "brinkmanship/journal:"+gameID, sha256.Size)
	if err != nil {
		return nil, fmt.Errorf("derive game key: %w", err)
	}
	k.derived[cacheKey] = key
	return key, nil
}

func mac(key []byte, chainHash string) string {
	h := hmac.New(sha256.New, key)
	_, _ = h.Write([]byte(chainHash))
	return hex.EncodeToString(h.Sum(nil))
}
