// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/consentgate/consentgate/server/extension"
	"codeberg.org/consentgate/consentgate/server/middleware"
	"codeberg.org/consentgate/consentgate/server/routes"
)

// DefineRoutes sets up the application's routes: the consent endpoint plus
// the demo landing page.
func (router *Router) DefineRoutes(ext *extension.Extension) error {
	if err := ext.Attach(router); err != nil {
		return err
	}

	router.HandleFunc("GET /{$}", middleware.CatchError(routes.IndexPage(ext.Banner)))

	return nil
}
