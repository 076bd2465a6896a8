// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Command catkit issues, verifies, and inspects Common Access Tokens
// from the command line.
//
//	catkit keygen                          mint a fresh HS256 key
//	catkit issue --key-file k --kid K ...  mint a token
//	catkit verify --keyring keys.yaml ...  verify a token and print claims
//	catkit inspect                         show a token's CBOR structure
//
// The tool is a thin shell over lib/cat; everything it does is
// available programmatically.
package main
