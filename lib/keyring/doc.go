// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyring loads verification keys from a YAML file.
//
// The file maps key identifiers to hex-encoded HMAC keys:
//
//	keys:
//	  Symmetric256: "403697de87af64611c1d32a05dab0fe1fcb715a86ab435f1ec99192d79569388"
//	  edge-2026:    "8cbe790f8dffe26626a9a4e609eadfd2a1a8246d9528f5ffd01843b14efea929"
//
// Loading is explicit: one path, no discovery, no environment
// fallbacks. The library layer takes plain kid-to-key maps; this
// package exists for the CLI and for services that keep their keys in
// configuration files.
package keyring
