// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the templ components for ConsentGate's HTML surface:
the full consent page, the embeddable consent banner, the demo index page,
and the themed error page.

Components are written against the templ runtime directly so downstream
applications can compose them with their own templ views.
*/
package views
