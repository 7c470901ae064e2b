// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package template maps template identifiers to renderable components.

Embedding applications can replace the built-in consent page or banner by
registering their own constructor under the identifier named in the
configuration ("consent/full" and "consent/banner" by default).
*/
package template

import (
	"fmt"
	"sync"

	"github.com/a-h/templ"

	"codeberg.org/consentgate/consentgate/assets/views"
)

// FullPageFunc builds the full consent page component.
type FullPageFunc func(views.ConsentPageData) templ.Component

// BannerFunc builds the banner component.
type BannerFunc func(views.BannerData) templ.Component

var (
	mu        sync.RWMutex
	fullPages = map[string]FullPageFunc{
		"consent/full": views.ConsentFull,
	}
	banners = map[string]BannerFunc{
		"consent/banner": views.ConsentBanner,
	}
)

// RegisterFullPage registers or replaces the full-page constructor for name.
func RegisterFullPage(name string, fn FullPageFunc) {
	mu.Lock()
	defer mu.Unlock()

	fullPages[name] = fn
}

// RegisterBanner registers or replaces the banner constructor for name.
func RegisterBanner(name string, fn BannerFunc) {
	mu.Lock()
	defer mu.Unlock()

	banners[name] = fn
}

// FullPage returns the full-page constructor registered under name.
func FullPage(name string) (FullPageFunc, error) {
	mu.RLock()
	defer mu.RUnlock()

	fn, ok := fullPages[name]
	if !ok {
		return nil, fmt.Errorf("no full consent page template registered under %q", name)
	}

	return fn, nil
}

// Banner returns the banner constructor registered under name.
func Banner(name string) (BannerFunc, error) {
	mu.RLock()
	defer mu.RUnlock()

	fn, ok := banners[name]
	if !ok {
		return nil, fmt.Errorf("no consent banner template registered under %q", name)
	}

	return fn, nil
}
