// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorData is the data used to render an error page.
type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

// Error renders a minimal error page.
func Error(data ErrorData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		msg := http.StatusText(data.StatusCode)
		if data.Error != nil {
			msg = data.Error.Error()
		}

		_, err := fmt.Fprintf(w,
			`<main><h1>%d %s</h1><p>%s</p></main>`,
			data.StatusCode,
			templ.EscapeString(http.StatusText(data.StatusCode)),
			templ.EscapeString(msg))

		return err
	})

	return layout(data.Title, body)
}
