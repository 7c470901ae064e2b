// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
)

// Tr returns the translated string for a source message id (msgid), which
// should be the original English UI text.
//
// If a translation is not found, Tr returns the msgid unchanged.
func Tr(ctx context.Context, msgid string) string {
	loc, _ := resolveLocale(TagFrom(ctx))
	if loc != nil && loc.IsTranslatedD(poDomain, msgid) {
		// Called through a function value so vet's printf check does not
		// mistake the msgid for a format string.
		getD := loc.GetD

		return getD(poDomain, msgid)
	}

	return msgid
}

// TrN translates a singular or plural message depending on n. If a
// translation is missing, we choose singular when n == 1, otherwise plural.
func TrN(ctx context.Context, singular, plural string, n int) string {
	loc, _ := resolveLocale(TagFrom(ctx))
	if loc != nil && loc.IsTranslatedND(poDomain, singular, n) {
		getND := loc.GetND

		return getND(poDomain, singular, plural, n)
	}

	if n == 1 {
		return singular
	}

	return plural
}
