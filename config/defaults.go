// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// Default consent surface values, shared with deployments that predate the
// configurable names.
const (
	defaultCookieName     = "_consent"
	defaultValidForMonths = 12
	defaultConsentPath    = "/consent"
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8484"

	cfg.Consent.CookieName = defaultCookieName
	cfg.Consent.ValidForMonths = defaultValidForMonths
	cfg.Consent.Path = defaultConsentPath
	cfg.Consent.FullTemplate = "consent/full"
	cfg.Consent.BannerTemplate = "consent/banner"
	cfg.Consent.UpdateRatePerMinute = 30

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
