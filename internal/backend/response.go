// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	errs "lingua/cli/internal/errors"
)

// APIError is a non-2xx answer handed back to the caller verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Body)
}

// CheckResponse returns nil for 2xx. Otherwise it consumes and closes the body and
// returns an *APIError; a 401 is additionally wrapped as errs.SignedOut, because a
// 401 that survives Do means the refresh protocol already gave up on the session.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	apiErr := ReadError(resp)
	if resp.StatusCode == http.StatusUnauthorized {
		return errs.Wrap(errs.SignedOut, "session ended", apiErr)
	}
	return apiErr
}

// ReadError consumes and closes a non-2xx body as an *APIError. Callers that give
// 401 a meaning of their own (a rejected login) use it instead of CheckResponse.
func ReadError(resp *http.Response) *APIError {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

// DecodeJSON checks resp, decodes a 2xx body into out and closes it.
// A nil out just discards the body.
func DecodeJSON(resp *http.Response, out any) error {
	if err := CheckResponse(resp); err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		where := "response body"
		if resp.Request != nil {
			where = resp.Request.Method + " " + resp.Request.URL.Path
		}
		return errs.Wrap(errs.Decode, where, err)
	}
	return nil
}
