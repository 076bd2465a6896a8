// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// readKey resolves HMAC key material from a file path ("-" for stdin).
// The file holds the key as hex; surrounding whitespace is trimmed.
func readKey(path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("key file is empty")
	}
	key, err := hex.DecodeString(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("key is not hex: %w", err)
	}
	return key, nil
}

// readToken resolves the token string from the first positional
// argument or, when absent, from stdin.
func readToken(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	token := string(bytes.TrimSpace(data))
	if token == "" {
		return "", fmt.Errorf("empty input: expected a token as an argument or on stdin")
	}
	return token, nil
}
