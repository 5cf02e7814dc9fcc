// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"regexp"
)

var (
	rePassword  = regexp.MustCompile(`(?i)(password=)([^\s&;]+)`)
	reBearer    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	reJSONToken = regexp.MustCompile(`(?i)("(?:access|refresh|access_token|refresh_token|password)"\s*:\s*")([^"]*)(")`)
	reEnvToken  = regexp.MustCompile(`\b(LINGUA_KEYRING_PASSPHRASE|ACCESS_TOKEN|REFRESH_TOKEN)=([^\s]+)`)
)

// Mask replaces credentials in s with "***": bearer headers, token= pairs,
// JSON access/refresh/password fields and known secret environment pairs.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reBearer.ReplaceAllString(out, "$1***")
	out = reJSONToken.ReplaceAllString(out, "$1***$3")
	out = reEnvToken.ReplaceAllString(out, "$1=***")
	return out
}

// Short returns a token fingerprint safe for logs: the last four characters.
func Short(token string) string {
	if token == "" {
		return "<none>"
	}
	if len(token) <= 4 {
		return "***"
	}
	return "***" + token[len(token)-4:]
}
