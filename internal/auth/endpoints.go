// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "strings"

// Endpoints are the auth API paths, all relative to the API base URL.
type Endpoints struct {
	Login        string
	ConfirmEmail string
	Refresh      string
	Profile      string
}

// NewEndpoints derives the endpoint paths from the auth base path, e.g. "/api/auth".
func NewEndpoints(authPath string) Endpoints {
	base := "/" + strings.Trim(authPath, "/")
	if base == "/" {
		base = ""
	}
	return Endpoints{
		Login:        base + "/login/",
		ConfirmEmail: base + "/verify-email/",
		Refresh:      base + "/refresh/",
		Profile:      base + "/profile/",
	}
}
