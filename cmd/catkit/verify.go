// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/pflag"

	"github.com/catkit-foundation/catkit/cmd/catkit/cli"
	"github.com/catkit-foundation/catkit/lib/cat"
	"github.com/catkit-foundation/catkit/lib/claims"
	"github.com/catkit-foundation/catkit/lib/keyring"
)

// verifyParams holds the flag values for "catkit verify".
type verifyParams struct {
	keyringPath string
	issuer      string
	audience    string
	url         string
	method      string
	expectTag   bool
	advisory    bool
}

func verifyCommand() *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Verify a token and print its claims",
		Description: `Verify the token given as an argument (or on stdin) against the keys in
a keyring file, then validate its restriction claims against the request
context supplied via flags. Prints one claim per line on success.`,
		Usage: "catkit verify --keyring <path> --issuer <name> [flags] [token]",
		Examples: []cli.Example{
			{
				Description: "Verify a token for a specific request",
				Command:     "catkit verify --keyring keys.yaml --issuer cdn --url https://api.example.com/v1/x --method GET < token.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.StringVar(&params.keyringPath, "keyring", "", "path to the keyring YAML file")
			flags.StringVar(&params.issuer, "issuer", "", "expected iss claim")
			flags.StringVar(&params.audience, "audience", "", "expected aud claim (optional)")
			flags.StringVar(&params.url, "url", "", "request URL for the catu check")
			flags.StringVar(&params.method, "method", "", "request method for the catm check")
			flags.BoolVar(&params.expectTag, "expect-cwt-tag", false, "require the CWT tag wrapping")
			flags.BoolVar(&params.advisory, "advisory-unsupported", false, "treat unimplemented restriction claims as advisory")
			return flags
		},
		Run: func(args []string) error {
			return runVerify(&params, args)
		},
	}
}

func runVerify(params *verifyParams, args []string) error {
	if params.keyringPath == "" || params.issuer == "" {
		return fmt.Errorf("--keyring and --issuer are required")
	}
	token, err := readToken(args)
	if err != nil {
		return err
	}

	keys, err := keyring.Load(params.keyringPath)
	if err != nil {
		return err
	}
	verifier, err := cat.NewVerifier(cat.VerifierConfig{
		Keys:                      keys,
		Issuer:                    params.issuer,
		Audience:                  params.audience,
		ExpectCWTTag:              params.expectTag,
		AdvisoryUnsupportedClaims: params.advisory,
	})
	if err != nil {
		return err
	}

	logger := cli.NewCommandLogger().With("command", "verify")
	verified, err := verifier.Verify(token, cat.Request{
		URL:    params.url,
		Method: params.method,
	})
	if err != nil {
		logger.Error("token rejected", "error", err)
		return err
	}
	logger.Info("token verified", "issuer", params.issuer)

	printClaims(verified)
	return nil
}

// printClaims writes one claim per line, labels ascending, values in a
// readable single-line form.
func printClaims(verified *claims.Claims) {
	labels := verified.Labels()
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	for _, label := range labels {
		value, _ := verified.Get(label)
		fmt.Printf("%d: %s\n", label, formatValue(value))
	}
}

func formatValue(value claims.Value) string {
	switch value.Kind() {
	case claims.KindInt:
		n, _ := value.Int()
		return fmt.Sprintf("%d", n)
	case claims.KindText:
		s, _ := value.Text()
		return fmt.Sprintf("%q", s)
	case claims.KindBytes:
		b, _ := value.Bytes()
		return fmt.Sprintf("h'%x'", b)
	case claims.KindArray:
		items, _ := value.Array()
		out := "["
		for i, item := range items {
			if i > 0 {
				out += ", "
			}
			out += formatValue(item)
		}
		return out + "]"
	case claims.KindMap:
		entries, _ := value.Map()
		keys := make([]uint64, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return int64(keys[i]) < int64(keys[j]) })
		out := "{"
		for i, key := range keys {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprintf("%d: %s", int64(key), formatValue(entries[key]))
		}
		return out + "}"
	}
	return "?"
}
