// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session answers whether a caller is currently signed in.
//
// The answer is based only on the presence of an access token. Nothing here checks
// signatures or expiry; a stale token is reported as authenticated and gets caught
// when the server rejects it and the request client runs the refresh flow.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource exposes the current access token. *keychain.Manager implements it.
type TokenSource interface {
	AccessToken() string
}

// IsAuthenticated reports whether an access token is stored.
func IsAuthenticated(src TokenSource) bool {
	return src.AccessToken() != ""
}

// Info is a display-only description of the stored access token.
type Info struct {
	Authenticated bool
	Subject       string
	ExpiresAt     time.Time
}

// Expired reports whether the token's exp claim is in the past at now.
// Tokens without a readable exp are never reported as expired.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Describe reads the sub and exp claims of a JWT access token without verifying it.
// Opaque tokens yield Info{Authenticated: true} with empty claims.
func Describe(src TokenSource) Info {
	token := src.AccessToken()
	if token == "" {
		return Info{}
	}
	info := Info{Authenticated: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		if uid, ok := claims["user_id"]; ok {
			if s, ok := uid.(string); ok {
				info.Subject = s
			}
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}
