// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport and server failures into messages a
// learner can act on.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"lingua/cli/internal/backend"
)

// Category groups failures by what the user can do about them.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
)

// Message is the rendered explanation of a failure.
type Message struct {
	Category Category
	Title    string
	Hints    []string
	Details  string
}

// Classify picks the category of err.
func Classify(err error) Category {
	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isTLSError(err):
		return TLS
	case isServerError(err):
		return Server
	default:
		return Generic
	}
}

// Describe builds the message for err raised while doing action against host.
func Describe(err error, action, host string) Message {
	m := Message{Category: Classify(err)}
	switch m.Category {
	case Timeout:
		m.Title = fmt.Sprintf("⏱️  Connection timeout while %s", action)
		m.Hints = []string{"Slow internet connection", "Server is under heavy load", "A firewall is holding the connection"}
	case DNS:
		m.Title = fmt.Sprintf("🌐 Cannot resolve %s while %s", host, action)
		m.Hints = []string{"Check your internet connection", "Check DNS settings", "Check for DNS-level blocking"}
	case ConnectionRefused:
		m.Title = fmt.Sprintf("🚫 Connection refused while %s", action)
		m.Hints = []string{"The service may be temporarily down", fmt.Sprintf("Check the API address (%s)", host)}
	case TLS:
		m.Title = fmt.Sprintf("🔒 Secure connection failed while %s", action)
		m.Hints = []string{"Check your system date and time", "Check proxy settings that intercept HTTPS"}
	case Server:
		m.Title = fmt.Sprintf("⚠️  Server error while %s", action)
		m.Hints = []string{"The problem is on our side, not in your setup", "Please try again in a few minutes"}
	default:
		m.Title = fmt.Sprintf("❌ Cannot reach Lingua while %s", action)
		m.Hints = []string{"Check your internet connection", fmt.Sprintf("Check that %s is reachable from your network", host)}
		m.Details = err.Error()
		if len(m.Details) > 100 {
			m.Details = m.Details[:100] + "..."
		}
	}
	return m
}

// Render writes m to w.
func Render(w io.Writer, m Message) {
	pterm.Fprintln(w, m.Title)
	pterm.Fprintln(w)
	for _, h := range m.Hints {
		pterm.Fprintln(w, "  • "+h)
	}
	if m.Details != "" {
		pterm.Fprintln(w)
		pterm.Fprintln(w, pterm.FgGray.Sprint("Technical details: "+m.Details))
	}
	pterm.Fprintln(w)
}

// FormatNetworkError prints a friendly explanation of err to w and returns err
// wrapped for the command's exit path.
func FormatNetworkError(w io.Writer, err error, action, baseURL string) error {
	if err == nil {
		return nil
	}
	Render(w, Describe(err, action, ExtractHostFromURL(baseURL)))
	return fmt.Errorf("network error: %w", err)
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") ||
		strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate")
}

func isServerError(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}

// ExtractHostFromURL returns the host of urlStr, or "the server" when it has none.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the server"
	}
	return u.Host
}
