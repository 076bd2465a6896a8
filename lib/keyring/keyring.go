// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Errors returned by Load and Parse.
var (
	// ErrNoKeys means the file parsed but defines no keys.
	ErrNoKeys = errors.New("keyring: no keys defined")

	// ErrBadKey means a key value is not valid hex or is empty.
	ErrBadKey = errors.New("keyring: invalid key material")
)

// file is the YAML document shape.
type file struct {
	Keys map[string]string `yaml:"keys"`
}

// Load reads a keyring file and returns the kid-to-key map expected by
// the verifier.
func Load(path string) (map[string][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyring: reading %s: %w", path, err)
	}
	keys, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("keyring: %s: %w", path, err)
	}
	return keys, nil
}

// Parse decodes keyring YAML. Hex is accepted in either case;
// surrounding whitespace is tolerated.
func Parse(data []byte) (map[string][]byte, error) {
	var parsed file
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Keys) == 0 {
		return nil, ErrNoKeys
	}

	keys := make(map[string][]byte, len(parsed.Keys))
	for kid, hexKey := range parsed.Keys {
		trimmed := strings.TrimSpace(hexKey)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: empty key for kid %q", ErrBadKey, kid)
		}
		key, err := hex.DecodeString(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: kid %q is not hex", ErrBadKey, kid)
		}
		keys[kid] = key
	}
	return keys, nil
}
