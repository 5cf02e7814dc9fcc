// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package profile holds the cached snapshot of the signed-in user as returned by
// the profile endpoint. The server is always authoritative; this copy only saves
// redundant fetches and lets independent views render without their own call.
package profile

import "time"

// Profile is the denormalized user identity returned by GET {auth}/profile/.
type Profile struct {
	ID           string        `json:"id"`
	DisplayName  string        `json:"display_name"`
	Email        string        `json:"email"`
	IsVerified   bool          `json:"is_verified"`
	IsPremium    bool          `json:"is_premium"`
	Avatar       string        `json:"avatar,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
	History      *History      `json:"history,omitempty"`
}

// Subscription summarizes the user's current plan.
type Subscription struct {
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// History summarizes learning activity.
type History struct {
	LessonsCompleted int        `json:"lessons_completed"`
	WordsLearned     int        `json:"words_learned"`
	BooksOpened      int        `json:"books_opened"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
}

// Name returns the best human-readable identifier: display name, then email, then id.
func (p *Profile) Name() string {
	if p == nil {
		return ""
	}
	switch {
	case p.DisplayName != "":
		return p.DisplayName
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

// Active reports whether the subscription is active at the given instant.
// A subscription without an expiry is active while its status says so.
func (s *Subscription) Active(now time.Time) bool {
	if s == nil || s.Status != "active" {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}
