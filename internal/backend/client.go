// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the authenticated request client for the Lingua API.
//
// Every protected call goes through Client.Do, which attaches the stored access
// token and locale, and on a 401 for a request that carried a token exchanges
// the refresh token once and replays the request once. When the refresh cannot
// succeed the client invokes its SignedOutHandler and hands the original 401
// back to the caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/locale"
	"lingua/cli/internal/logging"
)

// Header names set on every outbound call.
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// CredentialStore is the slice of the credential store the client needs.
// *keychain.Manager implements it.
type CredentialStore interface {
	AccessToken() string
	Tokens() (access, refresh string)
	RotateTokens(usedRefresh, access, refresh string) error
}

// SignedOutHandler tears the session down after an unrecoverable 401.
// It must be idempotent and must not call back into the client.
type SignedOutHandler func(ctx context.Context, reason error)

// Options configures a Client.
type Options struct {
	// BaseURL is the API origin, e.g. "https://api.lingua.app".
	BaseURL string
	// RefreshPath is the token-refresh endpoint path, e.g. "/api/auth/refresh/".
	RefreshPath string
	// HTTPClient performs the calls. Nil means http.DefaultClient, whose
	// timeout behaviour is left as is.
	HTTPClient *http.Client
	// Locale returns the current locale preference; read on every send.
	Locale func() locale.Locale
	// OnSignedOut runs when the refresh protocol cannot recover the session.
	OnSignedOut SignedOutHandler
	// Logger receives debug and warning lines. Nil discards them.
	Logger *pterm.Logger
}

// Client implements the refresh-and-retry protocol on top of net/http.
type Client struct {
	baseURL     string
	refreshPath string
	http        *http.Client
	store       CredentialStore
	locale      func() locale.Locale
	onSignedOut SignedOutHandler
	log         *pterm.Logger

	// refreshes collapses concurrent refreshes of the same token into one call.
	refreshes singleflight.Group
}

// New returns a Client reading credentials from store.
func New(store CredentialStore, opts Options) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		refreshPath: opts.RefreshPath,
		http:        opts.HTTPClient,
		store:       store,
		locale:      opts.Locale,
		onSignedOut: opts.OnSignedOut,
		log:         opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.locale == nil {
		c.locale = func() locale.Locale { return locale.Default }
	}
	if c.onSignedOut == nil {
		c.onSignedOut = func(context.Context, error) {}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// Request describes one API call. Body is kept as bytes so it can be replayed.
type Request struct {
	Method string
	// Path is appended to the base URL; absolute http(s) URLs are used as is.
	Path   string
	Header http.Header
	Body   []byte
}

// Do sends r with the stored credentials.
//
// The returned response is the server's answer to r, or to its single replay
// after a successful refresh. If the refresh failed, the session has been torn
// down and the original 401 response is returned. A non-nil error means the
// request never produced a response.
func (c *Client) Do(ctx context.Context, r *Request) (*http.Response, error) {
	token := c.store.AccessToken()

	resp, err := c.send(ctx, r, token)
	if err != nil {
		return nil, errs.Wrap(errs.Transport, r.Method+" "+r.Path, err)
	}
	if resp.StatusCode != http.StatusUnauthorized || token == "" {
		return resp, nil
	}

	fresh, err := c.refresh(ctx, token)
	if err != nil {
		c.log.Warn("session could not be refreshed", c.log.Args("path", r.Path, "error", logging.Mask(err.Error())))
		return resp, nil
	}
	drain(resp)

	retry, err := c.send(ctx, r, fresh)
	if err != nil {
		return nil, errs.Wrap(errs.Transport, r.Method+" "+r.Path+" (retry)", err)
	}
	return retry, nil
}

// Public sends r without credentials and without the refresh protocol.
// Login and registration confirmation use it: a stale stored token must
// neither be attached to them nor refreshed because of their 401s.
func (c *Client) Public(ctx context.Context, r *Request) (*http.Response, error) {
	resp, err := c.send(ctx, r, "")
	if err != nil {
		return nil, errs.Wrap(errs.Transport, r.Method+" "+r.Path, err)
	}
	return resp, nil
}

// Get is Do for a bodyless GET.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

// SendJSON marshals in as the body of a method call to path.
func (c *Client) SendJSON(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = b
	}
	return c.Do(ctx, &Request{Method: method, Path: path, Body: body})
}

func (c *Client) send(ctx context.Context, r *Request, token string) (*http.Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, c.url(r.Path), body)
	if err != nil {
		return nil, err
	}

	reqID := uuid.NewString()
	c.setStandardHeaders(req, reqID)
	for k, vals := range r.Header {
		req.Header.Del(k)
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", c.log.Args("method", r.Method, "path", r.Path, "request_id", reqID, "error", err.Error()))
		return nil, err
	}
	c.log.Debug("request", c.log.Args(
		"method", r.Method,
		"path", r.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"token", logging.Short(token),
	))
	return resp, nil
}

// setStandardHeaders applies the defaults every call starts from.
func (c *Client) setStandardHeaders(req *http.Request, reqID string) {
	req.Header.Set(HeaderContentType, contentTypeJSON)
	req.Header.Set(locale.HeaderName, c.locale().Header())
	req.Header.Set(HeaderRequestID, reqID)
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// drain discards the rest of a response we are not going to hand out.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
