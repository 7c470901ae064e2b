// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// pageStyle is the minimal built-in stylesheet.
//
// Deployments embedding only the banner or registering their own templates
// never ship this.
const pageStyle = `body{font-family:sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;line-height:1.5}
fieldset{border:1px solid #ccc;border-radius:4px;margin:1rem 0;padding:0.5rem 1rem}
.consent-banner{position:fixed;bottom:0;left:0;right:0;background:#f4f4f4;border-top:1px solid #ccc;padding:1rem}
.consent-banner fieldset{display:inline-block;margin:0 1rem 0 0;border:none;padding:0}
button{margin-right:0.5rem}`

// layout renders the HTML page shell around body.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><style>%s</style></head><body>`,
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</body></html>`)

		return err
	})
}
