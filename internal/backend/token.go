// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/keychain"
	"lingua/cli/internal/logging"
)

// refreshKey is the single singleflight key: there is one session per store.
const refreshKey = "refresh"

// ErrNoRefreshToken means a 401 arrived but there is nothing to exchange.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// refresh returns an access token to replay with after failedToken was rejected.
//
// Concurrent callers share one exchange. A caller whose failed token is already
// outdated (another caller refreshed in the meantime) gets the stored token back
// without a second call to the refresh endpoint. On failure the signed-out handler
// runs once per exchange.
func (c *Client) refresh(ctx context.Context, failedToken string) (string, error) {
	if current := c.store.AccessToken(); current != "" && current != failedToken {
		return current, nil
	}

	// The exchange must not be cut short because one of the waiting callers gave up.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.refreshes.Do(refreshKey, func() (any, error) {
		access, refresh := c.store.Tokens()
		if access != "" && access != failedToken {
			return access, nil
		}
		if refresh == "" {
			err := errs.Wrap(errs.RefreshFailed, "refresh", ErrNoRefreshToken)
			c.onSignedOut(flightCtx, err)
			return "", err
		}

		newAccess, newRefresh, err := c.RefreshToken(flightCtx, refresh)
		if err != nil {
			err = errs.Wrap(errs.RefreshFailed, "refresh", err)
			c.onSignedOut(flightCtx, err)
			return "", err
		}

		if err := c.store.RotateTokens(refresh, newAccess, newRefresh); err != nil {
			if errors.Is(err, keychain.ErrSessionChanged) {
				// Logged out (or logged in again) while the exchange was in flight.
				return "", errs.Wrap(errs.SignedOut, "refresh", err)
			}
			err = errs.Wrap(errs.Store, "save refreshed tokens", err)
			c.onSignedOut(flightCtx, err)
			return "", err
		}
		c.log.Debug("access token refreshed", c.log.Args("token", logging.Short(newAccess), "rotated", newRefresh != ""))
		return newAccess, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// RefreshToken calls POST {refresh path} with {"refresh": refreshToken}.
// It returns the new access token (mandatory) and the new refresh token, which is
// empty when the server does not rotate it.
//
// It goes straight to the HTTP client: no Authorization header, and a failure
// here is never itself refreshed.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(c.refreshPath), bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	c.setStandardHeaders(req, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", errs.Wrap(errs.Transport, "refresh", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", "", fmt.Errorf("refresh failed: %d %s", resp.StatusCode, logging.Mask(strings.TrimSpace(string(b))))
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", errs.Wrap(errs.Decode, "refresh response", err)
	}

	newAccessToken := extractAccessToken(result)
	if newAccessToken == "" {
		return "", "", errs.New(errs.Decode, "no access token in refresh response")
	}
	return newAccessToken, extractRefreshToken(result), nil
}

// TokenPair is the body returned by login, registration confirmation and refresh.
type TokenPair struct {
	Access  string
	Refresh string
}

// DecodeTokenPair reads a token pair body; the access token is mandatory.
func DecodeTokenPair(r io.Reader) (TokenPair, error) {
	var result map[string]any
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return TokenPair{}, errs.Wrap(errs.Decode, "token pair", err)
	}
	pair := TokenPair{Access: extractAccessToken(result), Refresh: extractRefreshToken(result)}
	if pair.Access == "" {
		return TokenPair{}, errs.New(errs.Decode, "no access token in response")
	}
	return pair, nil
}

// extractAccessToken accepts the field names the API has used for the access token,
// including a nested {"tokens": {...}} envelope.
func extractAccessToken(result map[string]any) string {
	for _, k := range []string{"access", "access_token", "accessToken"} {
		if v, ok := result[k].(string); ok && v != "" {
			return v
		}
	}
	if nested, ok := result["tokens"].(map[string]any); ok {
		return extractAccessToken(nested)
	}
	return ""
}

// extractRefreshToken returns "" when no refresh token is present, which is valid:
// refresh tokens are not rotated on every exchange.
func extractRefreshToken(result map[string]any) string {
	for _, k := range []string{"refresh", "refresh_token", "refreshToken"} {
		if v, ok := result[k].(string); ok && v != "" {
			return v
		}
	}
	if nested, ok := result["tokens"].(map[string]any); ok {
		return extractRefreshToken(nested)
	}
	return ""
}
