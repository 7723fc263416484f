package ai

import (
	"errors"
	"os"
	"strings"
)

// CredentialsEnvVar names the environment variable holding the
// comma-separated, ordered list of API keys.
const CredentialsEnvVar = "RECALL_API_KEYS"

// ErrNoCredentials is returned when no usable API keys are configured.
var ErrNoCredentials = errors.New("no API credentials configured")

// CredentialPool holds the ordered set of API keys used for provider
// failover. Order is significant: every call sequence starts at the first
// key and advances only past keys that have just failed.
type CredentialPool struct {
	keys []string
}

// NewCredentialPool builds a pool from the given keys, dropping blank
// entries while preserving order. It returns ErrNoCredentials if no usable
// key remains.
func NewCredentialPool(keys ...string) (*CredentialPool, error) {
	pool := &CredentialPool{keys: make([]string, 0, len(keys))}
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			pool.keys = append(pool.keys, key)
		}
	}
	if len(pool.keys) == 0 {
		return nil, ErrNoCredentials
	}
	return pool, nil
}

// Len returns the number of credentials in the pool.
func (p *CredentialPool) Len() int {
	return len(p.keys)
}

// Keys returns a copy of the ordered credential list.
func (p *CredentialPool) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// CredentialsFromEnv reads the ordered credential list from the
// RECALL_API_KEYS environment variable. The value is comma-separated;
// blank segments are ignored. Returns nil when the variable is unset.
func CredentialsFromEnv() []string {
	raw := os.Getenv(CredentialsEnvVar)
	if raw == "" {
		return nil
	}
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
