// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extension

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/consentgate/consentgate/assets/views"
	"codeberg.org/consentgate/consentgate/server/template"
	"codeberg.org/consentgate/consentgate/server/utils"
)

// consentDocument is the JSON API's success body.
type consentDocument struct {
	Enabled     []string `json:"enabled"`
	LastUpdated string   `json:"last_updated"`
}

// errorDocument is the JSON API's error body.
type errorDocument struct {
	Msg string `json:"msg"`
}

// HandleConsent serves the consent route, branching on the request's
// Content-Type: application/json requests use the JSON API, everything else
// gets the full consent page.
func (e *Extension) HandleConsent(w http.ResponseWriter, r *http.Request) error {
	if utils.IsJSONRequest(r) {
		return e.handleJSON(w, r)
	}

	return e.renderFullPage(w, r)
}

// handleJSON implements the JSON consent API.
//
// POST replaces the enabled set wholesale: every registered category becomes
// enabled exactly when its name appears in the payload. Validation happens
// before any mutation, so a rejected payload leaves the state untouched.
// GET (and any other method routed here) reports the current state.
func (e *Extension) handleJSON(w http.ResponseWriter, r *http.Request) error {
	state := e.State(r)

	if r.Method == http.MethodPost {
		if !e.limiter.allow(utils.StripPort(r.RemoteAddr)) {
			return respondJSON(w, http.StatusTooManyRequests,
				errorDocument{Msg: "too many consent updates"})
		}

		var payload any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return respondJSON(w, http.StatusBadRequest,
				errorDocument{Msg: "payload is not a list"})
		}

		items, ok := payload.([]any)
		if !ok {
			return respondJSON(w, http.StatusBadRequest,
				errorDocument{Msg: "payload is not a list"})
		}

		// Validate the whole payload before touching the state. Non-string
		// entries fall through to the unknown-category rejection.
		names := make(map[string]bool, len(items))

		for _, item := range items {
			name, _ := item.(string)
			if !e.reg.Has(name) {
				return respondJSON(w, http.StatusBadRequest,
					errorDocument{Msg: fmt.Sprintf("invalid consent category specified: %v", item)})
			}

			names[name] = true
		}

		for _, cat := range e.reg.Categories() {
			state.Set(cat.Name, names[cat.Name])
		}
	}

	return respondJSON(w, http.StatusOK, consentDocument{
		Enabled:     state.Enabled(),
		LastUpdated: state.LastUpdated().UTC().Format(time.RFC3339Nano),
	})
}

// respondJSON writes a JSON API response. All API responses, errors included,
// carry Access-Control-Allow-Credentials so cross-domain scripts on related
// sites can read them with credentials enabled.
func respondJSON(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(body)
}

// renderFullPage serves the HTML consent page.
func (e *Extension) renderFullPage(w http.ResponseWriter, r *http.Request) error {
	fn, err := template.FullPage(e.cfg.Consent.FullTemplate)
	if err != nil {
		return err
	}

	return fn(views.ConsentPageData{
		Categories:  e.reg.Categories(),
		State:       e.State(r),
		ContactMail: e.cfg.Consent.ContactMail,
		PostPath:    e.cfg.Consent.Path,
	}).Render(r.Context(), w)
}
