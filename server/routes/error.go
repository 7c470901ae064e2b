// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/consentgate/consentgate/assets/views"
	"codeberg.org/consentgate/consentgate/server/request_context"
)

// ErrorPage renders an error page.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	pageData := views.ErrorData{
		Title:      "Error",
		Error:      request_context.FromRequest(r).RequestError,
		StatusCode: request_context.FromRequest(r).StatusCode,
	}

	views.Error(pageData).Render(r.Context(), w)
}
