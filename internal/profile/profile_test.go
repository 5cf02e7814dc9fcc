package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Name(t *testing.T) {
	tests := []struct {
		name string
		p    *Profile
		want string
	}{
		{"nil profile", nil, ""},
		{"display name wins", &Profile{ID: "7", DisplayName: "Aziza", Email: "a@x.io"}, "Aziza"},
		{"email fallback", &Profile{ID: "7", Email: "a@x.io"}, "a@x.io"},
		{"id fallback", &Profile{ID: "7"}, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Name())
		})
	}
}

func TestSubscription_Active(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(24 * time.Hour)
	earlier := now.Add(-24 * time.Hour)

	assert.False(t, (*Subscription)(nil).Active(now))
	assert.True(t, (&Subscription{Status: "active"}).Active(now))
	assert.True(t, (&Subscription{Status: "active", ExpiresAt: &later}).Active(now))
	assert.False(t, (&Subscription{Status: "active", ExpiresAt: &earlier}).Active(now))
	assert.False(t, (&Subscription{Status: "canceled", ExpiresAt: &later}).Active(now))
}

func TestProfile_DecodesServerPayload(t *testing.T) {
	body := `{
		"id": "42",
		"display_name": "Timur",
		"email": "timur@example.com",
		"is_verified": true,
		"is_premium": true,
		"avatar": "/media/avatars/42.png",
		"subscription": {"plan": "yearly", "status": "active", "expires_at": "2026-01-01T00:00:00Z"},
		"history": {"lessons_completed": 12, "words_learned": 340, "books_opened": 2}
	}`

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, "Timur", p.Name())
	assert.True(t, p.IsPremium)
	require.NotNil(t, p.Subscription)
	assert.Equal(t, "yearly", p.Subscription.Plan)
	require.NotNil(t, p.History)
	assert.Equal(t, 340, p.History.WordsLearned)
}
