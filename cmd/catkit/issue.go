// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/catkit-foundation/catkit/cmd/catkit/cli"
	"github.com/catkit-foundation/catkit/lib/cat"
	"github.com/catkit-foundation/catkit/lib/claims"
	"github.com/catkit-foundation/catkit/lib/urimatch"
)

// issueParams holds the flag values for "catkit issue".
type issueParams struct {
	keyFile  string
	kid      string
	issuer   string
	subject  string
	audience string
	ttl      time.Duration
	methods  []string
	catuHost string
	noCWTTag bool
	replay   string
}

func issueCommand() *cli.Command {
	var params issueParams

	return &cli.Command{
		Name:    "issue",
		Summary: "Mint a Common Access Token",
		Description: `Build a claims set from flags, authenticate it with the given key, and
print the base64url token on stdout.

The token carries iat at the current time and exp after --ttl. A fresh
CWT ID is always minted so verifiers can track replay.`,
		Usage: "catkit issue --key-file <path> --kid <id> --issuer <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "A five-minute token for GET/HEAD on any *.example.com URL",
				Command:     "catkit issue --key-file hmac.key --kid edge-2026 --issuer cdn --ttl 5m --method GET --method HEAD --host-suffix .example.com",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("issue", pflag.ContinueOnError)
			flags.StringVar(&params.keyFile, "key-file", "", "path to the hex-encoded HMAC key (\"-\" for stdin)")
			flags.StringVar(&params.kid, "kid", "", "key identifier placed in the token header")
			flags.StringVar(&params.issuer, "issuer", "", "iss claim")
			flags.StringVar(&params.subject, "subject", "", "sub claim")
			flags.StringVar(&params.audience, "audience", "", "aud claim")
			flags.DurationVar(&params.ttl, "ttl", 5*time.Minute, "token lifetime")
			flags.StringArrayVar(&params.methods, "method", nil, "allowed HTTP method (repeatable; catm claim)")
			flags.StringVar(&params.catuHost, "host-suffix", "", "required URL host suffix (catu claim)")
			flags.StringVar(&params.replay, "replay", "", "replay mode: permitted, prohibited, or reuse-detection")
			flags.BoolVar(&params.noCWTTag, "no-cwt-tag", false, "emit the bare COSE_Mac0 array without CWT tags")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("issue takes no positional arguments, got %q", args[0])
			}
			return runIssue(&params)
		},
	}
}

func runIssue(params *issueParams) error {
	if params.keyFile == "" || params.kid == "" || params.issuer == "" {
		return fmt.Errorf("--key-file, --kid, and --issuer are required")
	}

	key, err := readKey(params.keyFile)
	if err != nil {
		return err
	}

	tokenClaims := claims.New()
	tokenClaims.SetIssuer(params.issuer)
	if params.subject != "" {
		tokenClaims.SetSubject(params.subject)
	}
	if params.audience != "" {
		tokenClaims.SetAudience(params.audience)
	}
	now := time.Now()
	if err := tokenClaims.SetIssuedAt(now.Unix()); err != nil {
		return err
	}
	if err := tokenClaims.SetExpiration(now.Add(params.ttl).Unix()); err != nil {
		return err
	}
	if len(params.methods) > 0 {
		if err := tokenClaims.SetMethods(params.methods...); err != nil {
			return err
		}
	}
	if params.catuHost != "" {
		rules := map[urimatch.Component]map[urimatch.MatchKind]string{
			urimatch.ComponentHost: {urimatch.MatchSuffix: params.catuHost},
		}
		if err := tokenClaims.SetURIRules(rules); err != nil {
			return err
		}
	}
	if params.replay != "" {
		mode, err := parseReplayMode(params.replay)
		if err != nil {
			return err
		}
		if err := tokenClaims.SetReplayMode(mode); err != nil {
			return err
		}
	}

	issuer, err := cat.NewIssuer(cat.IssuerConfig{
		Key:           key,
		KeyID:         params.kid,
		DisableCWTTag: params.noCWTTag,
		GenerateCWTID: true,
	})
	if err != nil {
		return err
	}

	token, err := issuer.Issue(tokenClaims)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func parseReplayMode(name string) (claims.ReplayMode, error) {
	switch name {
	case "permitted":
		return claims.ReplayPermitted, nil
	case "prohibited":
		return claims.ReplayProhibited, nil
	case "reuse-detection":
		return claims.ReplayReuseDetection, nil
	}
	return 0, fmt.Errorf("unknown replay mode %q (want permitted, prohibited, or reuse-detection)", name)
}
