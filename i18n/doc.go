// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides internationalisation utilities backed by GNU gettext
.po catalogues. It translates source message IDs (msgids) across locales.

Use the original English UI text as the msgid; do not invent keys.
Missing translations return the msgid unchanged, so the built-in English
copy always renders even with no catalogues loaded.

Translations can be used directly in view components:

	i18n.Tr(ctx, "Cookie preferences")
*/
package i18n
