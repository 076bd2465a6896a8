// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/catkit-foundation/catkit/cmd/catkit/cli"
)

// hs256KeySize is the HMAC-SHA-256 key length minted by keygen.
const hs256KeySize = 32

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate a fresh HS256 key",
		Description: `Print 32 cryptographically random bytes as lowercase hex, the form the
issue command and keyring files consume.`,
		Usage: "catkit keygen",
		Examples: []cli.Example{
			{
				Description: "Save a new key with owner-only permissions",
				Command:     "umask 077 && catkit keygen > hmac.key",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("keygen takes no arguments, got %q", args[0])
			}
			var key [hs256KeySize]byte
			if _, err := rand.Read(key[:]); err != nil {
				return fmt.Errorf("reading random bytes: %w", err)
			}
			fmt.Println(hex.EncodeToString(key[:]))
			return nil
		},
	}
}
