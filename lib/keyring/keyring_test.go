// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `keys:
  Symmetric256: "403697de87af64611c1d32a05dab0fe1fcb715a86ab435f1ec99192d79569388"
  edge-2026: "8CBE790F8DFFE26626A9A4E609EADFD2A1A8246D9528F5FFD01843B14EFEA929"
`

func TestParse(t *testing.T) {
	keys, err := Parse([]byte(testYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("len = %d, want 2", len(keys))
	}
	if len(keys["Symmetric256"]) != 32 {
		t.Errorf("Symmetric256 length = %d", len(keys["Symmetric256"]))
	}
	// Uppercase hex is accepted.
	if !bytes.Equal(keys["edge-2026"][:2], []byte{0x8c, 0xbe}) {
		t.Errorf("edge-2026 prefix = %x", keys["edge-2026"][:2])
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("keys: {}\n")); !errors.Is(err, ErrNoKeys) {
		t.Errorf("empty keys: got %v, want ErrNoKeys", err)
	}
	if _, err := Parse([]byte("keys:\n  k: \"zz\"\n")); !errors.Is(err, ErrBadKey) {
		t.Errorf("non-hex key: got %v, want ErrBadKey", err)
	}
	if _, err := Parse([]byte("keys:\n  k: \"\"\n")); !errors.Is(err, ErrBadKey) {
		t.Errorf("empty key: got %v, want ErrBadKey", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	keys, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("len = %d, want 2", len(keys))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
