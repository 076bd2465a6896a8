// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package urimatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Component identifies one URI component addressable by a CATU rule.
type Component uint64

// URI components (keys inside a CATU claim map).
const (
	ComponentScheme     Component = 0
	ComponentHost       Component = 1
	ComponentPort       Component = 2
	ComponentPath       Component = 3
	ComponentQuery      Component = 4
	ComponentParentPath Component = 5
	ComponentFilename   Component = 6
	ComponentStem       Component = 7
	ComponentExtension  Component = 8
)

var componentNames = map[Component]string{
	ComponentScheme:     "scheme",
	ComponentHost:       "host",
	ComponentPort:       "port",
	ComponentPath:       "path",
	ComponentQuery:      "query",
	ComponentParentPath: "parent_path",
	ComponentFilename:   "filename",
	ComponentStem:       "stem",
	ComponentExtension:  "extension",
}

// String returns the component's name as used in error messages.
func (c Component) String() string {
	if name, ok := componentNames[c]; ok {
		return name
	}
	return fmt.Sprintf("component %d", uint64(c))
}

// ErrInvalidURI is returned by Parse for inputs that are not absolute
// URIs of the shape scheme://authority[/path][?query][#fragment].
var ErrInvalidURI = errors.New("urimatch: invalid absolute URI")

// Components holds the decomposed parts of an absolute URI. Port is the
// decimal string form of the port, empty when the authority carries no
// port. ParentPath includes the trailing slash; Stem and Extension
// split Filename at its last dot unless that dot is the first or last
// character of the filename.
type Components struct {
	Scheme     string
	Host       string
	Port       string
	Path       string
	Query      string
	ParentPath string
	Filename   string
	Stem       string
	Extension  string
}

// Get returns the value of one component. The second return is false
// for component codes outside the defined range.
func (c *Components) Get(id Component) (string, bool) {
	switch id {
	case ComponentScheme:
		return c.Scheme, true
	case ComponentHost:
		return c.Host, true
	case ComponentPort:
		return c.Port, true
	case ComponentPath:
		return c.Path, true
	case ComponentQuery:
		return c.Query, true
	case ComponentParentPath:
		return c.ParentPath, true
	case ComponentFilename:
		return c.Filename, true
	case ComponentStem:
		return c.Stem, true
	case ComponentExtension:
		return c.Extension, true
	}
	return "", false
}

// Parse decomposes an absolute URI. The scheme is everything before
// "://", the authority runs to the first of "/", "?", or "#", and the
// path keeps its leading slash. A port, when present, must parse as a
// decimal 16-bit unsigned integer.
func Parse(uri string) (*Components, error) {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd <= 0 {
		return nil, fmt.Errorf("%w: missing scheme separator in %q", ErrInvalidURI, uri)
	}
	out := &Components{Scheme: uri[:schemeEnd]}
	rest := uri[schemeEnd+3:]

	authorityEnd := strings.IndexAny(rest, "/?#")
	if authorityEnd == -1 {
		authorityEnd = len(rest)
	}
	authority := rest[:authorityEnd]
	rest = rest[authorityEnd:]
	if authority == "" {
		return nil, fmt.Errorf("%w: empty authority in %q", ErrInvalidURI, uri)
	}

	if colon := strings.LastIndex(authority, ":"); colon != -1 {
		portText := authority[colon+1:]
		port, err := strconv.ParseUint(portText, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: port %q", ErrInvalidURI, portText)
		}
		out.Host = authority[:colon]
		out.Port = strconv.FormatUint(port, 10)
	} else {
		out.Host = authority
	}

	// Strip the fragment, then split path from query.
	if hash := strings.Index(rest, "#"); hash != -1 {
		rest = rest[:hash]
	}
	if question := strings.Index(rest, "?"); question != -1 {
		out.Path = rest[:question]
		out.Query = rest[question+1:]
	} else {
		out.Path = rest
	}

	if slash := strings.LastIndex(out.Path, "/"); slash != -1 {
		out.ParentPath = out.Path[:slash+1]
		out.Filename = out.Path[slash+1:]
	} else {
		out.Filename = out.Path
	}

	// Stem/extension split on the last dot, unless the dot is the
	// filename's first or last character.
	out.Stem = out.Filename
	if dot := strings.LastIndex(out.Filename, "."); dot > 0 && dot < len(out.Filename)-1 {
		out.Stem = out.Filename[:dot]
		out.Extension = out.Filename[dot+1:]
	}

	return out, nil
}
