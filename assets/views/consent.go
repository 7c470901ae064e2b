// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/consentgate/consentgate/core/consent"
	"codeberg.org/consentgate/consentgate/i18n"
)

// consentScript wires the category toggles to the JSON consent endpoint.
//
// The endpoint path and related state live in data attributes on the
// enclosing element, so the same script serves both the banner and the full page.
const consentScript = `<script>
(function () {
	var root = document.currentScript.parentElement;
	function names(selector) {
		var out = [];
		root.querySelectorAll(selector).forEach(function (el) {
			out.push(el.getAttribute('data-consent-category'));
		});
		return out;
	}
	root.querySelectorAll('[data-consent-action]').forEach(function (btn) {
		btn.addEventListener('click', function () {
			var selected;
			if (btn.getAttribute('data-consent-action') === 'accept-all') {
				selected = names('input[data-consent-category]');
			} else {
				selected = names('input[data-consent-category]:checked');
			}
			fetch(root.getAttribute('data-consent-path'), {
				method: 'POST',
				credentials: 'include',
				headers: {'Content-Type': 'application/json'},
				body: JSON.stringify(selected)
			}).then(function () { window.location.reload(); });
		});
	});
})();
</script>`

// ConsentPageData is the data used to render the full consent page.
type ConsentPageData struct {
	// Categories in registration order.
	Categories []consent.Category

	// State resolves the current enabled value per category. May be nil, in
	// which case category defaults are shown.
	State *consent.State

	// ContactMail is the address shown for consent questions.
	ContactMail string

	// PostPath is where the JSON consent API listens.
	PostPath string
}

// BannerData is the data used to render the embeddable banner.
type BannerData struct {
	Categories  []consent.Category
	State       *consent.State
	ContactMail string
	PostPath    string

	// PrimaryDomain and Domains back cross-domain consent propagation on the
	// client side; the server only exposes the list.
	PrimaryDomain string
	Domains       []string
}

// categoryEnabled resolves the checkbox value for a category.
func categoryEnabled(state *consent.State, cat consent.Category) bool {
	if state == nil {
		return cat.Default
	}

	return state.Get(cat.Name)
}

// categoryInputs renders one labelled checkbox per category.
func categoryInputs(categories []consent.Category, state *consent.State, withDescriptions bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, cat := range categories {
			checked := ""
			if categoryEnabled(state, cat) {
				checked = " checked"
			}

			disabled := ""
			if cat.IsRequired {
				// Required categories render as checked and untogglable; the
				// server enforces their membership regardless.
				checked = " checked"
				disabled = " disabled"
			}

			if _, err := fmt.Fprintf(w,
				`<fieldset><label><input type="checkbox" data-consent-category="%s"%s%s> %s</label>`,
				templ.EscapeString(cat.Name), checked, disabled,
				templ.EscapeString(i18n.Tr(ctx, cat.Title))); err != nil {
				return err
			}

			if withDescriptions {
				if _, err := fmt.Fprintf(w, `<p>%s</p>`,
					templ.EscapeString(i18n.Tr(ctx, cat.Description))); err != nil {
					return err
				}
			}

			if _, err := io.WriteString(w, `</fieldset>`); err != nil {
				return err
			}
		}

		return nil
	})
}

// contactLine renders the "questions?" paragraph with a mailto link.
func contactLine(contactMail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if contactMail == "" {
			return nil
		}

		_, err := fmt.Fprintf(w,
			`<p>%s <a href="mailto:%s">%s</a></p>`,
			templ.EscapeString(i18n.Tr(ctx, "Questions about how we handle your data?")),
			templ.EscapeString(contactMail),
			templ.EscapeString(contactMail))

		return err
	})
}

// consentControls renders the action buttons shared by banner and full page.
func consentControls() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<button type="button" data-consent-action="save">%s</button><button type="button" data-consent-action="accept-all">%s</button>`,
			templ.EscapeString(i18n.Tr(ctx, "Save preferences")),
			templ.EscapeString(i18n.Tr(ctx, "Accept all")))

		return err
	})
}

// ConsentFull is the built-in full consent page body, registered under the
// template identifier "consent/full".
func ConsentFull(data ConsentPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<main data-consent-path="%s"><h1>%s</h1><p>%s</p>`,
			templ.EscapeString(data.PostPath),
			templ.EscapeString(i18n.Tr(ctx, "Cookie preferences")),
			templ.EscapeString(i18n.Tr(ctx, "Choose which groups of cookies this site may use."))); err != nil {
			return err
		}

		if err := categoryInputs(data.Categories, data.State, true).Render(ctx, w); err != nil {
			return err
		}

		if err := consentControls().Render(ctx, w); err != nil {
			return err
		}

		if err := contactLine(data.ContactMail).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, consentScript+`</main>`)

		return err
	})

	return layout("Cookie preferences", body)
}

// ConsentBanner is the built-in banner content, registered under the template
// identifier "consent/banner".
//
// The domain list is serialized into a data attribute so client-side code can
// propagate consent across related domains.
func ConsentBanner(data BannerData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		domainsJSON, err := json.Marshal(data.Domains)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<aside class="consent-banner" data-consent-path="%s" data-consent-primary-domain="%s" data-consent-domains="%s"><p>%s</p>`,
			templ.EscapeString(data.PostPath),
			templ.EscapeString(data.PrimaryDomain),
			templ.EscapeString(string(domainsJSON)),
			templ.EscapeString(i18n.Tr(ctx, "This site uses cookies. Pick which kinds you are okay with."))); err != nil {
			return err
		}

		if err := categoryInputs(data.Categories, data.State, false).Render(ctx, w); err != nil {
			return err
		}

		if err := consentControls().Render(ctx, w); err != nil {
			return err
		}

		if err := contactLine(data.ContactMail).Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, consentScript+`</aside>`)

		return err
	})
}

// Empty is a component that renders nothing, used when the banner is suppressed.
func Empty() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return nil
	})
}
