// Package keystore persists the Bitquery API key between runs so the user is
// not forced to re-enter it every time.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
)

// Keystore stores the API key in a small JSON file (default config.json).
type Keystore struct {
	path string
}

type keyFile struct {
	APIKey string `json:"api_key"`
}

func New(path string) *Keystore {
	if path == "" {
		path = "config.json"
	}
	return &Keystore{path: path}
}

// Load returns the saved API key, or "" when no usable key is stored.
// A missing or corrupt file is not an error; the caller will just prompt.
func (k *Keystore) Load() string {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return ""
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return ""
	}
	return kf.APIKey
}

// Save writes the API key with owner-only permissions.
func (k *Keystore) Save(apiKey string) error {
	data, err := json.Marshal(keyFile{APIKey: apiKey})
	if err != nil {
		return fmt.Errorf("encoding key file: %w", err)
	}
	if err := os.WriteFile(k.path, data, 0o600); err != nil {
		return fmt.Errorf("saving API key to %s: %w", k.path, err)
	}
	return nil
}
