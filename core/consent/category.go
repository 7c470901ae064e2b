// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package consent

// Category is a named class of cookie/tracking usage a visitor can consent to,
// for example a group of cookies (or even just a single cookie) that belong together.
//
// Values are immutable once registered; the Name is the registry key.
type Category struct {
	// Name identifies the category (e.g. "preferences", "analytics").
	Name string

	// Title is a human readable title for the category (i.e. Preferences, Analytics).
	Title string

	// Description explains what the cookies in this category are used for.
	Description string

	// Default is the pre-checked value used when no consent has been recorded yet.
	Default bool

	// IsRequired marks categories the site cannot function without; the UI
	// renders these as non-togglable.
	IsRequired bool
}
