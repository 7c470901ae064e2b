// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/consentgate/consentgate/server/extension"
	"codeberg.org/consentgate/consentgate/server/middleware"
)

// RegisterMiddleware installs the request lifecycle chain, including the
// consent extension's cookie middleware.
func (router *Router) RegisterMiddleware(ext *extension.Extension) {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.SetRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)
	router.Use(ext.WithConsent) // decodes the cookie, rewrites it on change
}
