// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/catkit-foundation/catkit/cmd/catkit/cli"
)

func main() {
	root := &cli.Command{
		Name:    "catkit",
		Summary: "Issue, verify, and inspect Common Access Tokens",
		Description: `Common Access Tokens (CTA-5007) are compact CBOR-encoded authorization
tokens authenticated with HMAC-SHA-256 and carried as URL-safe base64.
They bind a grant to an issuer, a lifetime, and optional restrictions:
which URLs, which HTTP methods, replay behavior, and a pinned TLS
client fingerprint.`,
		Subcommands: []*cli.Command{
			issueCommand(),
			verifyCommand(),
			inspectCommand(),
			keygenCommand(),
		},
	}

	if err := root.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "catkit: %v\n", err)
		os.Exit(1)
	}
}
