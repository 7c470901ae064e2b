// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/consentgate/consentgate/i18n"
)

// IndexData is the data used to render the demo landing page.
type IndexData struct {
	// Banner is the consent banner (or Empty when suppressed), injected by
	// the route so this package stays free of consent plumbing.
	Banner templ.Component

	ConsentPath string
}

// Index renders the demo landing page of the reference server.
func Index(data IndexData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<main><h1>ConsentGate</h1><p>%s</p><p><a href="%s">%s</a></p></main>`,
			templ.EscapeString(i18n.Tr(ctx, "A small reference site demonstrating cookie consent handling.")),
			templ.EscapeString(data.ConsentPath),
			templ.EscapeString(i18n.Tr(ctx, "Manage cookie preferences"))); err != nil {
			return err
		}

		if data.Banner == nil {
			return nil
		}

		return data.Banner.Render(ctx, w)
	})

	return layout("ConsentGate", body)
}
