// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"

	"codeberg.org/consentgate/consentgate/server/utils"
)

// SameSite=Lax allows cookies on top-level navigations, preventing consent
// loss when users arrive from external links (Strict would require a page refresh).
const CookieSameSite = http.SameSiteLaxMode

// GetCookie returns the unescaped value of the named cookie and whether the
// request carried it at all.
//
// The presence flag matters: an absent consent cookie means "never asked",
// which is not the same thing as an empty value.
func GetCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", true
	}

	return value, true
}

// SetCookie writes a cookie with the given lifetime in seconds.
//
// The value is query-escaped so JSON payloads survive the cookie-octet
// restrictions of RFC 6265.
func SetCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   utils.IsConnectionSecure(r),
		HttpOnly: false, // client-side code reads the consent payload for cross-domain rendering
		SameSite: CookieSameSite,
	})
}

// ClearCookie instructs the user agent to delete the named cookie.
func ClearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   utils.IsConnectionSecure(r),
		SameSite: CookieSameSite,
	})
}
