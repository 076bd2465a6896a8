// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/base64"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/catkit-foundation/catkit/cmd/catkit/cli"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:    "inspect",
		Summary: "Show a token's CBOR structure without verifying it",
		Description: `Base64url-decode the token given as an argument (or on stdin) and print
its RFC 8949 Extended Diagnostic Notation. No key is needed; nothing is
verified.

Diagnostic notation preserves CBOR type information: the CWT and
COSE_Mac0 tags, byte strings in hex, and integer claim labels. A
typical token renders as:

  61(17([h'a10105', {4: h'53796d6d6574726963323536'}, h'a1...', h'1d...']))`,
		Usage: "catkit inspect [token]",
		Examples: []cli.Example{
			{
				Description: "Inspect a freshly issued token",
				Command:     "catkit issue ... | catkit inspect",
			},
		},
		Run: runInspect,
	}
}

func runInspect(args []string) error {
	token, err := readToken(args)
	if err != nil {
		return err
	}
	wire, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("token is not base64url: %w", err)
	}
	notation, err := cbor.Diagnose(wire)
	if err != nil {
		return fmt.Errorf("diagnose CBOR: %w", err)
	}
	fmt.Println(notation)
	return nil
}
