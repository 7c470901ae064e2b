// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/consentgate/consentgate/core/audit"
	"codeberg.org/consentgate/consentgate/server/request_context"
	"codeberg.org/consentgate/consentgate/server/routes"
	"codeberg.org/consentgate/consentgate/server/utils"
)

// CatchError wraps HTTP handlers that return an error, providing centralized
// error handling, response buffering, and request logging.
//
// It operates as follows:
//  1. It times the request for logging purposes.
//  2. It wraps the execution of the given handler, which has the signature
//     `func(w http.ResponseWriter, r *http.Request) error`. The handler's
//     output is buffered using an httptest.ResponseRecorder.
//  3. Any error returned by the handler is stored in the request context.
//
// After the handler runs, it decides on the final response:
//   - If the handler returns an error without writing an HTTP error status
//     code (i.e., status < 400), it's treated as an unhandled internal error.
//     The buffered response is discarded and replaced with the themed error
//     page, or a JSON error document for JSON requests.
//   - A buffered 404 Not Found is replaced the same way.
//   - In all other cases (e.g., a successful response, or a handled client
//     error the handler already wrote), the buffered response is written to
//     the client.
//
// Finally, it logs the completed request details (status, duration, error,
// etc.) via the audit package.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		recorder := httptest.NewRecorder()

		// Execute the handler, capturing its output and any returned error.
		err := handler(recorder, r)

		ctx.RequestError = err

		switch {
		case (ctx.RequestError != nil && recorder.Code < http.StatusBadRequest) || (recorder.Code == http.StatusNotFound):
			// An unhandled error or a 404 occurred. Discard the recorder's
			// contents and render our error page.
			if recorder.Code == http.StatusNotFound {
				ctx.StatusCode = http.StatusNotFound
			} else {
				ctx.StatusCode = http.StatusInternalServerError
			}

			if utils.IsJSONRequest(r) {
				writeJSONError(w, ctx.StatusCode, ctx.RequestError)
			} else {
				w.WriteHeader(ctx.StatusCode)
				routes.ErrorPage(w, r) // ErrorPage uses ctx.RequestError and ctx.StatusCode
			}

		default:
			// This is a successful response or a handled error. We trust the recorder's output.
			if recorder.Code == 0 {
				recorder.Code = http.StatusOK
			}

			ctx.StatusCode = recorder.Code // Ensure ctx.StatusCode reflects the actual code for logging.
			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if ctx.Consent != nil {
			span.CookieWritten = ctx.Consent.Dirty()
		}

		span.Log()
	}
}

// writeJSONError emits an error document in the consent API's error shape.
func writeJSONError(w http.ResponseWriter, statusCode int, requestError error) {
	msg := http.StatusText(statusCode)
	if requestError != nil {
		msg = requestError.Error()
	}

	w.Header().Set("Content-Type", "application/json")

	// Error responses carry the same credentials header as successful API
	// responses so cross-origin callers see a uniform surface.
	w.Header().Set("Access-Control-Allow-Credentials", "true")

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(map[string]string{"msg": msg}); err != nil {
		log.Err(err).Msg("Failed to write JSON error body")
	}
}
