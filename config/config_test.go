// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestLoadConfig focuses on verifying main functionality (e.g. rejection of
invalid input) and *shouldn't* need exhaustive scenarios.

No t.Parallel here: the subtests mutate the process environment.
*/

// TestLoadConfig verifies the behavior of the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string            // Description of the test case
		env     map[string]string // Environment variables to set
		wantErr bool              // Whether an error is expected
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"CONSENTGATE_HOST": "localhost",
				"CONSENTGATE_PORT": "8282",
			},
			wantErr: false,
		},
		{
			name: "Invalid cookie name",
			env: map[string]string{
				"CONSENTGATE_COOKIE_NAME": "my cookie;",
			},
			wantErr: true,
		},
		{
			name: "Zero validity",
			env: map[string]string{
				"CONSENTGATE_VALID_FOR_MONTHS": "0",
			},
			wantErr: true,
		},
		{
			name: "Relative consent path",
			env: map[string]string{
				"CONSENTGATE_PATH": "consent",
			},
			wantErr: true,
		},
		{
			name: "Invalid contact mail",
			env: map[string]string{
				"CONSENTGATE_CONTACT_MAIL": "not-an-address",
			},
			wantErr: true,
		},
		{
			name: "Invalid log level",
			env: map[string]string{
				"CONSENTGATE_LOG_LEVEL": "loud",
			},
			wantErr: true,
		},
		{
			name: "Negative update rate",
			env: map[string]string{
				"CONSENTGATE_UPDATE_RATE": "-1",
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg := &ServerConfig{}
			err := cfg.LoadConfig()

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrimaryDomainFallsBackToHost(t *testing.T) {
	cfg := &ServerConfig{}
	cfg.SetDefaults()
	cfg.Basic.Host = "consent.example"

	require.NoError(t, cfg.validateAndSet())
	assert.Equal(t, "consent.example", cfg.Consent.PrimaryDomain)
}

func TestDerivedDurations(t *testing.T) {
	cfg := &ServerConfig{}
	cfg.SetDefaults()

	assert.Equal(t, 365*24*time.Hour, cfg.ValidFor())
	assert.Equal(t, 365*86400, cfg.CookieMaxAge())
}

func TestDefaults(t *testing.T) {
	cfg := &ServerConfig{}
	cfg.SetDefaults()

	assert.Equal(t, "_consent", cfg.Consent.CookieName)
	assert.Equal(t, 12, cfg.Consent.ValidForMonths)
	assert.Equal(t, "/consent", cfg.Consent.Path)
	assert.Equal(t, "consent/full", cfg.Consent.FullTemplate)
	assert.Equal(t, "consent/banner", cfg.Consent.BannerTemplate)
}
