// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extension ties the consent domain into the HTTP request lifecycle.

An Extension owns the category registry and attaches three things to a host
application: the WithConsent middleware that decodes and (when changed)
rewrites the consent cookie, the content-negotiated consent route, and the
Banner injector that embedding pages call to render the consent prompt.
*/
package extension

import (
	"context"
	"errors"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"codeberg.org/consentgate/consentgate/assets/views"
	"codeberg.org/consentgate/consentgate/config"
	"codeberg.org/consentgate/consentgate/core/consent"
	"codeberg.org/consentgate/consentgate/core/untrusted"
	"codeberg.org/consentgate/consentgate/server/middleware"
	"codeberg.org/consentgate/consentgate/server/request_context"
	"codeberg.org/consentgate/consentgate/server/template"
	"codeberg.org/consentgate/consentgate/server/utils"
)

// ErrAlreadyRegistered indicates that Attach was called twice for the same
// Extension. Registering the consent routes twice is a configuration error,
// caught at setup rather than surfacing as duplicate-pattern panics later.
var ErrAlreadyRegistered = errors.New("consent extension is already registered on a router")

// Mux is the route-registration surface Attach needs. *http.ServeMux and the
// application Router both satisfy it.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Extension is the consent plugin instance.
type Extension struct {
	reg        *consent.Registry
	cfg        *config.ServerConfig
	limiter    *updateLimiter
	registered bool
}

// New creates an Extension over the given registry and configuration.
func New(reg *consent.Registry, cfg *config.ServerConfig) *Extension {
	return &Extension{
		reg:     reg,
		cfg:     cfg,
		limiter: newUpdateLimiter(cfg.Consent.UpdateRatePerMinute),
	}
}

// Registry returns the category registry this Extension serves.
func (e *Extension) Registry() *consent.Registry {
	return e.reg
}

// Attach registers the consent route on the given mux.
//
// Attach is not safe for concurrent use; call it during setup, before the
// server starts accepting requests.
func (e *Extension) Attach(mux Mux) error {
	if e.registered {
		return ErrAlreadyRegistered
	}

	e.registered = true

	handler := middleware.CatchError(e.HandleConsent)
	mux.Handle("GET "+e.cfg.Consent.Path, handler)
	mux.Handle("POST "+e.cfg.Consent.Path, handler)

	log.Debug().
		Str("path", e.cfg.Consent.Path).
		Msg("Consent routes registered")

	return nil
}

// WithConsent is the request lifecycle middleware. Before the handler it
// decodes the consent cookie into the RequestContext; after the handler, if
// the state changed, it writes the refreshed cookie.
//
// The inner handler's output is buffered so the Set-Cookie header can still
// be added after the handler has produced its response.
func (e *Extension) WithConsent(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := request_context.FromRequest(r)

	raw, present := untrusted.GetCookie(r, e.cfg.Consent.CookieName)
	ctx.Consent = consent.DecodeState(raw, present, e.reg)
	ctx.ConsentCookiePresent = present

	recorder := httptest.NewRecorder()
	next.ServeHTTP(recorder, r)

	if ctx.Consent.Dirty() {
		untrusted.SetCookie(w, r,
			e.cfg.Consent.CookieName, ctx.Consent.Encode(), e.cfg.CookieMaxAge())
	}

	maps.Copy(w.Header(), recorder.Header())
	w.WriteHeader(recorder.Code)

	if _, err := recorder.Body.WriteTo(w); err != nil {
		log.Err(err).Msg("Failed to write response body")
	}
}

// State returns the request's decoded consent state, decoding the cookie
// directly if the WithConsent middleware is not installed.
func (e *Extension) State(r *http.Request) *consent.State {
	if ctx := request_context.FromContext(r.Context()); ctx != nil && ctx.Consent != nil {
		return ctx.Consent
	}

	raw, present := untrusted.GetCookie(r, e.cfg.Consent.CookieName)

	return consent.DecodeState(raw, present, e.reg)
}

// PrimaryDomain returns the configured primary domain with any port stripped,
// the form exposed to client-side propagation code.
func (e *Extension) PrimaryDomain() string {
	return utils.StripPort(e.cfg.Consent.PrimaryDomain)
}

// Domains returns the full related-domain list: the registry's domain loader
// output with the primary domain appended. In development mode localhost is
// appended as well so local multi-port setups see themselves listed.
func (e *Extension) Domains() []string {
	domains := append([]string{}, e.reg.Domains()...)
	domains = append(domains, e.PrimaryDomain())

	if e.cfg.Development.InDevelopment {
		domains = append(domains, "localhost")
	}

	return domains
}

// Banner returns the banner component for the current request.
//
// The banner renders as empty unless the request is on the consent route
// itself or the visitor's consent is stale, so embedding pages can include it
// unconditionally.
func (e *Extension) Banner(r *http.Request) templ.Component {
	state := e.State(r)

	onConsentRoute := r.URL.Path == e.cfg.Consent.Path
	if !onConsentRoute && !state.IsStale(e.cfg.ValidFor()) {
		return views.Empty()
	}

	fn, err := template.Banner(e.cfg.Consent.BannerTemplate)
	if err != nil {
		// Surface the missing template at render time so the error
		// middleware of the embedding page handles it.
		return templ.ComponentFunc(func(_ context.Context, _ io.Writer) error {
			return err
		})
	}

	return fn(views.BannerData{
		Categories:    e.reg.Categories(),
		State:         state,
		ContactMail:   e.cfg.Consent.ContactMail,
		PostPath:      e.cfg.Consent.Path,
		PrimaryDomain: e.PrimaryDomain(),
		Domains:       e.Domains(),
	})
}
