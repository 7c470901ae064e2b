// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extension_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/consentgate/consentgate/config"
	"codeberg.org/consentgate/consentgate/core/consent"
	"codeberg.org/consentgate/consentgate/server/extension"
	"codeberg.org/consentgate/consentgate/server/middleware"
)

func newTestConfig(t *testing.T) *config.ServerConfig {
	t.Helper()

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()
	cfg.Consent.PrimaryDomain = "example.com"
	cfg.Consent.ContactMail = "privacy@example.com"

	return cfg
}

func newTestExtension(t *testing.T, cfg *config.ServerConfig) *extension.Extension {
	t.Helper()

	reg := consent.NewRegistry()
	reg.AddStandardCategories()

	return extension.New(reg, cfg)
}

// handlerFor builds the request pipeline the real router assembles: request
// context setup, the consent cookie middleware, then the consent routes.
func handlerFor(t *testing.T, ext *extension.Extension) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	require.NoError(t, ext.Attach(mux))

	withConsent := middleware.Wrap(ext.WithConsent, mux)

	return middleware.Wrap(middleware.SetRequestContext, withConsent)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

// addConsentCookie attaches a consent cookie the way the middleware writes it.
func addConsentCookie(req *http.Request, enabled []string, lastUpdated time.Time) {
	payload, _ := json.Marshal(map[string]any{
		"enabled":      enabled,
		"last_updated": lastUpdated.UTC().Format(time.RFC3339Nano),
	})

	req.AddCookie(&http.Cookie{
		Name:  "_consent",
		Value: url.QueryEscape(string(payload)),
	})
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))

	return doc
}

func TestConsentJSON_GetFirstVisit(t *testing.T) {
	t.Parallel()

	handler := handlerFor(t, newTestExtension(t, newTestConfig(t)))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, jsonRequest(http.MethodGet, "/consent", ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	doc := decodeBody(t, rr)
	assert.Equal(t, []any{"analytics", "preferences", "required"}, doc["enabled"],
		"first visit reports the category defaults")
	assert.NotEmpty(t, doc["last_updated"])

	assert.Empty(t, rr.Header().Values("Set-Cookie"),
		"reading consent must not write a cookie")
}

func TestConsentJSON_PostReplacesWholesale(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	handler := handlerFor(t, newTestExtension(t, cfg))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, jsonRequest(http.MethodPost, "/consent", `["required","analytics"]`))

	require.Equal(t, http.StatusOK, rr.Code)

	doc := decodeBody(t, rr)
	assert.Equal(t, []any{"analytics", "required"}, doc["enabled"],
		"preferences defaults on but is absent from the payload, so it goes off")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_consent", cookies[0].Name)
	assert.Equal(t, 365*86400, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	raw, err := url.QueryUnescape(cookies[0].Value)
	require.NoError(t, err)

	var payload struct {
		Enabled []string `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, []string{"analytics", "required"}, payload.Enabled)
}

func TestConsentJSON_PostNotAList(t *testing.T) {
	t.Parallel()

	handler := handlerFor(t, newTestExtension(t, newTestConfig(t)))

	for _, body := range []string{`{"analytics":true}`, `"analytics"`, `not json`} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, jsonRequest(http.MethodPost, "/consent", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, map[string]any{"msg": "payload is not a list"}, decodeBody(t, rr))
		assert.Empty(t, rr.Header().Values("Set-Cookie"), "rejected payloads must not mutate")
	}
}

func TestConsentJSON_PostUnknownCategory(t *testing.T) {
	t.Parallel()

	handler := handlerFor(t, newTestExtension(t, newTestConfig(t)))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, jsonRequest(http.MethodPost, "/consent", `["required","foo","also-bad"]`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"msg": "invalid consent category specified: foo"},
		decodeBody(t, rr), "the first offending name is reported")
	assert.Empty(t, rr.Header().Values("Set-Cookie"),
		"validation happens before any state change")
}

func TestConsentJSON_IdempotentPostWritesNoCookie(t *testing.T) {
	t.Parallel()

	handler := handlerFor(t, newTestExtension(t, newTestConfig(t)))

	req := jsonRequest(http.MethodPost, "/consent", `["analytics","preferences","required"]`)
	addConsentCookie(req, []string{"analytics", "preferences", "required"}, time.Now())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Values("Set-Cookie"),
		"re-submitting the current selection must not rewrite the cookie")
}

func TestConsentPage_HTML(t *testing.T) {
	t.Parallel()

	handler := handlerFor(t, newTestExtension(t, newTestConfig(t)))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/consent", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Find("input[data-consent-category]").Length())
	assert.Equal(t, 1, doc.Find(`input[data-consent-category="required"][disabled]`).Length(),
		"required categories render untogglable")
	assert.Equal(t, 1, doc.Find(`a[href="mailto:privacy@example.com"]`).Length())
	assert.Equal(t, "/consent", doc.Find("[data-consent-path]").AttrOr("data-consent-path", ""))
	assert.Empty(t, rr.Header().Values("Set-Cookie"), "rendering the page must not mutate")
}

func TestBannerVisibility(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	ext := newTestExtension(t, cfg)

	render := func(req *http.Request) string {
		var sb strings.Builder
		require.NoError(t, ext.Banner(req).Render(req.Context(), &sb))

		return sb.String()
	}

	t.Run("NoCookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
		assert.Contains(t, render(req), "data-consent-path",
			"missing consent shows the banner everywhere")
	})

	t.Run("FreshCookieElsewhere", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
		addConsentCookie(req, []string{"required"}, time.Now())

		assert.Empty(t, render(req), "fresh consent suppresses the banner off the consent route")
	})

	t.Run("FreshCookieOnConsentRoute", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/consent", nil)
		addConsentCookie(req, []string{"required"}, time.Now())

		assert.Contains(t, render(req), "data-consent-path",
			"the consent route always shows the banner")
	})

	t.Run("StaleCookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
		addConsentCookie(req, []string{"required"}, time.Now().Add(-2*365*24*time.Hour))

		assert.Contains(t, render(req), "data-consent-path",
			"expired consent shows the banner again")
	})
}

func TestBannerDomains(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	ext := newTestExtension(t, cfg)
	ext.Registry().SetDomainLoader(func() []string { return []string{"alt.example"} })

	assert.Equal(t, []string{"alt.example", "example.com"}, ext.Domains(),
		"the primary domain is appended to the loader output")

	cfg.Development.InDevelopment = true
	assert.Equal(t, []string{"alt.example", "example.com", "localhost"}, ext.Domains())
}

func TestAttach_Twice(t *testing.T) {
	t.Parallel()

	ext := newTestExtension(t, newTestConfig(t))

	require.NoError(t, ext.Attach(http.NewServeMux()))

	err := ext.Attach(http.NewServeMux())
	assert.ErrorIs(t, err, extension.ErrAlreadyRegistered)
}

func TestConsentJSON_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.Consent.UpdateRatePerMinute = 2
	handler := handlerFor(t, newTestExtension(t, cfg))

	post := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, jsonRequest(http.MethodPost, "/consent", `["required"]`))

		return rr
	}

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)

	rr := post()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, map[string]any{"msg": "too many consent updates"}, decodeBody(t, rr))
}

// TestConsentLifecycle walks the full visitor journey: first visit, explicit
// choice, replayed cookie, banner suppression.
func TestConsentLifecycle(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	ext := newTestExtension(t, cfg)
	handler := handlerFor(t, ext)

	// First visit: page renders, nothing is written.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/consent", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Result().Cookies())

	// The visitor saves an explicit selection.
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, jsonRequest(http.MethodPost, "/consent", `["required","preferences"]`))
	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	// Replaying the cookie reports the stored selection without rewriting it.
	req := jsonRequest(http.MethodGet, "/consent", "")
	req.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{"preferences", "required"}, decodeBody(t, rr)["enabled"])
	assert.Empty(t, rr.Header().Values("Set-Cookie"))

	// With fresh consent recorded, ordinary pages no longer show the banner.
	pageReq := httptest.NewRequest(http.MethodGet, "/", nil)
	pageReq.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})

	var sb strings.Builder
	require.NoError(t, ext.Banner(pageReq).Render(pageReq.Context(), &sb))
	assert.Empty(t, sb.String())
}
