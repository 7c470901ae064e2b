// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"

	"codeberg.org/consentgate/consentgate/config"
)

// baseHeaders defines the default headers to be set in responses.
//
// NOTE: we intentionally don't set CORP or HSTS headers.
var baseHeaders = http.Header{
	"Referrer-Policy":        {"no-referrer"},
	"X-Frame-Options":        {"DENY"},
	"X-Content-Type-Options": {"nosniff"},
}

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		// Make development iteration painless.
		headers.Set("Cache-Control", "no-store")
	}

	headers.Set("Consentgate-Version", config.BuildVersion)
	headers.Set("Consentgate-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}
