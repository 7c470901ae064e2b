// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// validation errors.
var (
	errUnixSocketWithHostPort = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errInvalidLogLevel        = errors.New("invalid Log.Level value")
	errCookieNameEmpty        = errors.New("Consent.CookieName cannot be empty")
	errCookieNameInvalid      = errors.New("Consent.CookieName contains characters not allowed in a cookie name")
	errValidForMonthsInvalid  = errors.New("Consent.ValidForMonths must be at least 1")
	errConsentPathInvalid     = errors.New("Consent.Path must start with '/'")
	errPrimaryDomainRequired  = errors.New("you need to set Consent.PrimaryDomain or Basic.Host")
	errContactMailInvalid     = errors.New("Consent.ContactMail is not a valid address")
	errTemplateNameEmpty      = errors.New("consent template names cannot be empty")
	errUpdateRateNegative     = errors.New("Consent.UpdateRatePerMinute cannot be negative")
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// cookieNameSeparators are the RFC 6265 token separators a cookie name must not contain.
const cookieNameSeparators = "()<>@,;:\\\"/[]?={} \t"

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if cfg.Basic.UnixSocket != "" && (cfg.Basic.Host != "" || cfg.Basic.Port != "") {
		return errUnixSocketWithHostPort
	}

	if !slices.Contains(validLogLevels, cfg.Log.Level) {
		return fmt.Errorf("%w: %s", errInvalidLogLevel, cfg.Log.Level)
	}

	if err := cfg.validateConsent(); err != nil {
		return err
	}

	return nil
}

func (cfg *ServerConfig) validateConsent() error {
	section := &cfg.Consent

	if section.CookieName == "" {
		return errCookieNameEmpty
	}

	if strings.ContainsAny(section.CookieName, cookieNameSeparators) {
		return fmt.Errorf("%w: %q", errCookieNameInvalid, section.CookieName)
	}

	if section.ValidForMonths < 1 {
		return fmt.Errorf("%w, got %d", errValidForMonthsInvalid, section.ValidForMonths)
	}

	if !strings.HasPrefix(section.Path, "/") {
		return fmt.Errorf("%w: %q", errConsentPathInvalid, section.Path)
	}

	// The primary domain is the servername consent is sourced from in
	// multi-domain deployments; single-domain deployments just use the host.
	if section.PrimaryDomain == "" {
		if cfg.Basic.Host == "" {
			return errPrimaryDomainRequired
		}

		section.PrimaryDomain = cfg.Basic.Host

		log.Debug().
			Str("primaryDomain", section.PrimaryDomain).
			Msg("Consent.PrimaryDomain not set, using Basic.Host")
	}

	if section.ContactMail != "" {
		if _, err := mail.ParseAddress(section.ContactMail); err != nil {
			return fmt.Errorf("%w: %q", errContactMailInvalid, section.ContactMail)
		}
	}

	if section.FullTemplate == "" || section.BannerTemplate == "" {
		return errTemplateNameEmpty
	}

	if section.UpdateRatePerMinute < 0 {
		return errUpdateRateNegative
	}

	return nil
}
