// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/a-h/templ"

	"codeberg.org/consentgate/consentgate/assets/views"
	"codeberg.org/consentgate/consentgate/config"
)

// BannerFunc resolves the consent banner component for a request. The router
// injects it so this package stays decoupled from the consent extension.
type BannerFunc func(r *http.Request) templ.Component

// IndexPage returns a handler for the demo landing page with the consent
// banner injected through banner.
func IndexPage(banner BannerFunc) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		return views.Index(views.IndexData{
			Banner:      banner(r),
			ConsentPath: config.Global.Consent.Path,
		}).Render(r.Context(), w)
	}
}
