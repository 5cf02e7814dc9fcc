// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package resources holds the typed consumers of protected API endpoints:
// lessons, e-book PDFs, purchases and profile edits. They all reach the API
// through backend.Client, so expired sessions are refreshed for them and a 401
// they still see surfaces as an errs.SignedOut error.
package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"lingua/cli/internal/backend"
	errs "lingua/cli/internal/errors"
	"lingua/cli/internal/profile"
)

// Client is the request surface the consumers need. *backend.Client implements it.
type Client interface {
	Do(ctx context.Context, r *backend.Request) (*http.Response, error)
	Get(ctx context.Context, path string) (*http.Response, error)
	SendJSON(ctx context.Context, method, path string, in any) (*http.Response, error)
}

// ProfileSaver receives the profile returned by a successful edit.
type ProfileSaver interface {
	SaveProfile(*profile.Profile) error
}

// Lesson is one lesson as served by the API.
type Lesson struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Level       string       `json:"level,omitempty"`
	IsPremium   bool         `json:"is_premium"`
	Completed   bool         `json:"completed"`
	Words       []Vocabulary `json:"words,omitempty"`
}

// Vocabulary is a word taught by a lesson.
type Vocabulary struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Example     string `json:"example,omitempty"`
}

// Checkout is the opaque payment-provider session a purchase starts.
type Checkout struct {
	URL       string `json:"checkout_url"`
	SessionID string `json:"session_id,omitempty"`
}

// ProfileUpdate lists the editable profile fields; empty fields are not sent.
type ProfileUpdate struct {
	DisplayName string
	Email       string
}

// Service groups the consumers.
type Service struct {
	client      Client
	store       ProfileSaver
	profilePath string
}

// New returns a Service. profilePath is the auth profile endpoint, edited in place.
func New(client Client, store ProfileSaver, profilePath string) *Service {
	return &Service{client: client, store: store, profilePath: profilePath}
}

// Lesson fetches lesson id.
func (s *Service) Lesson(ctx context.Context, id int) (*Lesson, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("/api/lessons/%d/", id))
	if err != nil {
		return nil, err
	}
	var l Lesson
	if err := backend.DecodeJSON(resp, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// OpenPDF starts streaming the PDF of book id. The caller must close the reader.
func (s *Service) OpenPDF(ctx context.Context, id int) (io.ReadCloser, error) {
	resp, err := s.client.Do(ctx, &backend.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/books/%d/pdf/", id),
		Header: http.Header{"Accept": {"application/pdf"}},
	})
	if err != nil {
		return nil, err
	}
	if err := backend.CheckResponse(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Purchase opens a checkout for planID. Payment itself happens at the returned URL.
func (s *Service) Purchase(ctx context.Context, planID string) (*Checkout, error) {
	resp, err := s.client.SendJSON(ctx, http.MethodPost, "/api/payments/checkout/", map[string]string{"plan": planID})
	if err != nil {
		return nil, err
	}
	var c Checkout
	if err := backend.DecodeJSON(resp, &c); err != nil {
		return nil, err
	}
	if c.URL == "" {
		return nil, errs.New(errs.Decode, "checkout response has no checkout_url")
	}
	return &c, nil
}

// UpdateProfile sends the changed fields and an optional avatar as a multipart
// PATCH, then caches the profile the server returns.
func (s *Service) UpdateProfile(ctx context.Context, u ProfileUpdate, avatarName string, avatar io.Reader) (*profile.Profile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if u.DisplayName != "" {
		if err := mw.WriteField("display_name", u.DisplayName); err != nil {
			return nil, err
		}
	}
	if u.Email != "" {
		if err := mw.WriteField("email", u.Email); err != nil {
			return nil, err
		}
	}
	if avatar != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filepath.Base(avatarName)))
		h.Set("Content-Type", imageType(avatarName))
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, avatar); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, &backend.Request{
		Method: http.MethodPatch,
		Path:   s.profilePath,
		Header: http.Header{backend.HeaderContentType: {mw.FormDataContentType()}},
		Body:   buf.Bytes(),
	})
	if err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := backend.DecodeJSON(resp, &p); err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(&p); err != nil {
		return nil, errs.Wrap(errs.Store, "save profile", err)
	}
	return &p, nil
}

// Raw performs an arbitrary authenticated call and returns the status and body.
// Non-2xx answers are returned, not turned into errors.
func (s *Service) Raw(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	resp, err := s.client.Do(ctx, &backend.Request{Method: strings.ToUpper(method), Path: path, Body: body})
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errs.Wrap(errs.Transport, "read response", err)
	}
	if json.Valid(b) {
		var out bytes.Buffer
		if json.Indent(&out, b, "", "  ") == nil {
			b = out.Bytes()
		}
	}
	return resp.StatusCode, b, nil
}

func imageType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
