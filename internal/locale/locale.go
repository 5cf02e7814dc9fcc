// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package locale selects one of the two interface locales supported by the API
// and renders it into the language-negotiation header sent with every request.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported interface locale.
type Locale string

const (
	English Locale = "en"
	Russian Locale = "ru"

	// Default is used when no preference is stored or the stored value is unusable.
	Default = English

	// HeaderName is the language-negotiation header the API reads.
	HeaderName = "Accept-Language"
)

var (
	supported = []Locale{English, Russian}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Russian})
)

// Supported returns the supported locales in preference order.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse maps any BCP-47 tag (e.g. "ru-RU", "en_GB") onto a supported locale.
// ok is false when the input was empty, malformed or did not match; Default is returned then.
func Parse(s string) (Locale, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return Default, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default, false
	}
	return supported[idx], true
}

// String implements fmt.Stringer.
func (l Locale) String() string { return string(l) }

// Header returns the header value for l, falling back to Default for unknown values.
func (l Locale) Header() string {
	for _, s := range supported {
		if l == s {
			return string(l)
		}
	}
	return string(Default)
}
