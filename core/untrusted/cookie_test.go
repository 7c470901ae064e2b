// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/consentgate/consentgate/core/untrusted"
)

func TestCookieRoundTrip(t *testing.T) {
	t.Parallel()

	// JSON payloads contain characters not valid in a cookie-octet; the
	// escaping has to carry them through a real Set-Cookie header.
	value := `{"enabled":["required","analytics"],"last_updated":"2025-01-01T00:00:00Z"}`

	rr := httptest.NewRecorder()
	untrusted.SetCookie(rr, httptest.NewRequest("GET", "/", nil), "_consent", value, 3600)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.False(t, cookies[0].Secure, "plain HTTP request must not mark the cookie Secure")

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})

	got, present := untrusted.GetCookie(req, "_consent")
	assert.True(t, present)
	assert.Equal(t, value, got)
}

func TestGetCookie_Absent(t *testing.T) {
	t.Parallel()

	value, present := untrusted.GetCookie(httptest.NewRequest("GET", "/", nil), "_consent")
	assert.False(t, present)
	assert.Empty(t, value)
}

func TestGetCookie_BadEscape(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "_consent", Value: "%zz"})

	value, present := untrusted.GetCookie(req, "_consent")
	assert.True(t, present, "an unreadable cookie still counts as present")
	assert.Empty(t, value)
}

func TestClearCookie(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	untrusted.ClearCookie(rr, httptest.NewRequest("GET", "/", nil), "_consent")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
