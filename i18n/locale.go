// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sort"

	"golang.org/x/text/language"
)

// BaseLocale is the default locale used when no specific locale is set.
const BaseLocale = "en"

// baseTag is the canonical tag for BaseLocale.
var baseTag = language.Make(BaseLocale)

// Languages returns the list of supported language tags derived from
// the loaded gettext catalogs.
//
// The returned slice is a copy, is sorted by tag string, and is safe to retain.
// Before Setup has run it contains only the base locale.
func Languages() []language.Tag {
	if matcher == nil {
		return []language.Tag{baseTag}
	}

	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}
