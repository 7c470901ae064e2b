// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/consentgate/consentgate/assets/views"
	"codeberg.org/consentgate/consentgate/core/consent"
)

func renderToDoc(t *testing.T, render func(w *strings.Builder) error) *goquery.Document {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, render(&sb))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)

	return doc
}

func TestConsentBanner_Markup(t *testing.T) {
	t.Parallel()

	reg := consent.NewRegistry()
	reg.AddStandardCategories()

	data := views.BannerData{
		Categories:    reg.Categories(),
		State:         consent.DecodeState("", false, reg),
		ContactMail:   "privacy@example.com",
		PostPath:      "/consent",
		PrimaryDomain: "example.com",
		Domains:       []string{"alt.example", "example.com"},
	}

	doc := renderToDoc(t, func(w *strings.Builder) error {
		return views.ConsentBanner(data).Render(context.Background(), w)
	})

	banner := doc.Find("aside.consent-banner")
	require.Equal(t, 1, banner.Length())

	assert.Equal(t, "/consent", banner.AttrOr("data-consent-path", ""))
	assert.Equal(t, "example.com", banner.AttrOr("data-consent-primary-domain", ""))
	assert.JSONEq(t, `["alt.example","example.com"]`,
		banner.AttrOr("data-consent-domains", ""))

	assert.Equal(t, 3, banner.Find("input[data-consent-category]").Length())
	assert.Equal(t, 1, banner.Find(`[data-consent-action="accept-all"]`).Length())
	assert.Equal(t, 1, banner.Find(`[data-consent-action="save"]`).Length())
	assert.Equal(t, 1, banner.Find(`a[href="mailto:privacy@example.com"]`).Length())
}

func TestConsentFull_ChecksReflectState(t *testing.T) {
	t.Parallel()

	reg := consent.NewRegistry()
	reg.AddStandardCategories()

	state := consent.DecodeState(`{"enabled":["required"]}`, true, reg)

	doc := renderToDoc(t, func(w *strings.Builder) error {
		return views.ConsentFull(views.ConsentPageData{
			Categories: reg.Categories(),
			State:      state,
			PostPath:   "/consent",
		}).Render(context.Background(), w)
	})

	assert.Equal(t, 1, doc.Find(`input[data-consent-category="required"][checked]`).Length())
	assert.Equal(t, 0, doc.Find(`input[data-consent-category="analytics"][checked]`).Length(),
		"categories the visitor turned off render unchecked")
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	require.NoError(t, views.Empty().Render(context.Background(), &sb))
	assert.Empty(t, sb.String())
}

func TestError_Markup(t *testing.T) {
	t.Parallel()

	doc := renderToDoc(t, func(w *strings.Builder) error {
		return views.Error(views.ErrorData{
			Title:      "Error",
			Error:      errors.New("something broke"),
			StatusCode: 500,
		}).Render(context.Background(), w)
	})

	assert.Contains(t, doc.Find("h1").Text(), "500")
	assert.Contains(t, doc.Find("p").Text(), "something broke")
}
