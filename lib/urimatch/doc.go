// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package urimatch parses absolute URIs into the component vocabulary
// of the CATU restriction claim and evaluates match rules against those
// components.
//
// A CATU claim constrains a token to URLs whose components satisfy
// declared rules: the scheme must equal "https", the host must end in
// ".example.com", the path must start with "/v1/", and so on. The
// component split here is CATU's, not net/url's — CATU addresses the
// path's parent directory, filename, stem, and extension as first-class
// components, so the parser derives all nine components in one pass.
//
// Match kinds 4 (regex) and the negative hash kinds are reserved by the
// CAT specification. This implementation fails closed: a rule of a
// reserved kind is reported as ErrUnsupportedMatchKind and the token
// carrying it is rejected.
package urimatch
