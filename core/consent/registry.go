// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package consent holds the framework-free consent model: categories, the
ordered category registry, and the cookie payload transcoder with its
dirty tracking.

Everything here is plain data and pure functions so it can be exercised
without an HTTP stack; the server packages supply the request/response
plumbing.
*/
package consent

import "time"

// Copy for the standard categories.
//
// These strings double as gettext msgids, so they must stay in sync with the
// po catalogs; the views translate them at render time.
const (
	requiredTitle       = "Required"
	requiredDescription = "These cookies are required for the site to function, like handling login (remembering who " +
		"you are logged in as between page visits)."
	preferencesTitle       = "Preferences"
	preferencesDescription = "These cookies are used for convenience functionality, " +
		"like saving local preferences you have made."
	analyticsTitle       = "Analytics"
	analyticsDescription = "These cookies are used to track your page visits across the site and record some basic " +
		"information about your browser. We use this information in order to see how our users are using the site, " +
		"allowing us to focus improvements."
)

const (
	monthsPerYear = 12
	daysPerYear   = 365
	hoursPerDay   = 24
	secondsPerDay = 24 * 60 * 60
)

// DomainLoader returns the list of related domains that share this consent
// deployment. The primary domain is appended separately by the caller.
type DomainLoader func() []string

// Registry is the ordered collection of consent categories plus the pluggable
// domain loader.
//
// A Registry is built once at startup and is read-only afterwards, so it is
// safe to share across concurrently handled requests without locking.
type Registry struct {
	order        []string
	categories   map[string]Category
	domainLoader DomainLoader
}

// NewRegistry returns an empty Registry with a domain loader that yields no
// domains.
func NewRegistry() *Registry {
	return &Registry{
		categories:   make(map[string]Category),
		domainLoader: func() []string { return nil },
	}
}

// AddCategory registers a new category of consent and returns the stored value.
//
// Registering a name twice overwrites the entry but keeps its original
// position in the rendering order.
func (reg *Registry) AddCategory(name, title, description string, defaultValue, isRequired bool) Category {
	if _, exists := reg.categories[name]; !exists {
		reg.order = append(reg.order, name)
	}

	cat := Category{
		Name:        name,
		Title:       title,
		Description: description,
		Default:     defaultValue,
		IsRequired:  isRequired,
	}
	reg.categories[name] = cat

	return cat
}

// AddStandardCategories registers the three common cookie categories
// (required, preferences, analytics) with fixed English copy, for getting
// started quickly.
func (reg *Registry) AddStandardCategories() {
	reg.AddCategory("required", requiredTitle, requiredDescription, true, true)
	reg.AddCategory("preferences", preferencesTitle, preferencesDescription, true, false)
	reg.AddCategory("analytics", analyticsTitle, analyticsDescription, true, false)
}

// Categories returns the registered categories in registration order.
func (reg *Registry) Categories() []Category {
	out := make([]Category, 0, len(reg.order))
	for _, name := range reg.order {
		out = append(out, reg.categories[name])
	}

	return out
}

// Category looks up a single category by name.
func (reg *Registry) Category(name string) (Category, bool) {
	cat, ok := reg.categories[name]

	return cat, ok
}

// Has reports whether name is a registered category.
//
// Consent updates must only reference registered names; stale names read from
// old cookies are tolerated but never validated through Has.
func (reg *Registry) Has(name string) bool {
	_, ok := reg.categories[name]

	return ok
}

// SetDomainLoader registers the function that returns the list of valid
// domain names for cross-domain banner rendering.
func (reg *Registry) SetDomainLoader(loader DomainLoader) {
	if loader != nil {
		reg.domainLoader = loader
	}
}

// Domains returns the loader's current output.
func (reg *Registry) Domains() []string {
	return reg.domainLoader()
}

// DefaultEnabled returns the names of all categories whose Default is true,
// in registration order. It seeds the enabled-set for first-time visitors.
func (reg *Registry) DefaultEnabled() []string {
	var out []string

	for _, name := range reg.order {
		if reg.categories[name].Default {
			out = append(out, name)
		}
	}

	return out
}

// ValidFor converts a validity expressed in months to a duration using the
// approximation days = months/12 * 365.
//
// This is intentionally NOT calendar-month arithmetic; cookies written by
// earlier deployments used the same approximation and staleness must agree
// with them.
func ValidFor(months int) time.Duration {
	days := float64(months) / monthsPerYear * daysPerYear

	return time.Duration(days * hoursPerDay * float64(time.Hour))
}

// MaxAgeSeconds returns the Max-Age cookie attribute for a validity in
// months. Whole days only; the fraction is truncated.
func MaxAgeSeconds(months int) int {
	days := int(float64(months) / monthsPerYear * daysPerYear)

	return days * secondsPerDay
}
