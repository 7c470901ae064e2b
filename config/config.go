// Copyright 2024 - 2025, the ConsentGate contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"codeberg.org/consentgate/consentgate/core/consent"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host       string `env:"CONSENTGATE_HOST,overwrite"       yaml:"host"`
		Port       string `env:"CONSENTGATE_PORT,overwrite"       yaml:"port"`
		UnixSocket string `env:"CONSENTGATE_UNIXSOCKET"           yaml:"unixSocket"`
	} `yaml:"basic"`

	Consent struct {
		// CookieName is the name of the consent cookie.
		CookieName string `env:"CONSENTGATE_COOKIE_NAME,overwrite" yaml:"cookieName"`

		// ValidForMonths is how long recorded consent stays fresh before the
		// visitor is re-prompted.
		ValidForMonths int `env:"CONSENTGATE_VALID_FOR_MONTHS,overwrite" yaml:"validForMonths"`

		// PrimaryDomain is the canonical domain consent is sourced from in a
		// multi-domain deployment. Falls back to Basic.Host when unset.
		PrimaryDomain string `env:"CONSENTGATE_PRIMARY_DOMAIN,overwrite" yaml:"primaryDomain"`

		// ContactMail is shown on the consent page and banner.
		ContactMail string `env:"CONSENTGATE_CONTACT_MAIL,overwrite" yaml:"contactMail"`

		// Path is where the consent page and JSON API are served.
		Path string `env:"CONSENTGATE_PATH,overwrite" yaml:"path"`

		// FullTemplate and BannerTemplate name entries in the view registry,
		// letting deployments swap the built-in markup.
		FullTemplate   string `env:"CONSENTGATE_FULL_TEMPLATE,overwrite"   yaml:"fullTemplate"`
		BannerTemplate string `env:"CONSENTGATE_BANNER_TEMPLATE,overwrite" yaml:"bannerTemplate"`

		// Domains is a static list of related domains, used when no domain
		// loader is installed programmatically.
		Domains []string `env:"CONSENTGATE_DOMAINS,overwrite" yaml:"domains"`

		// UpdateRatePerMinute caps JSON consent updates per client address.
		// Zero disables the limiter.
		UpdateRatePerMinute int `env:"CONSENTGATE_UPDATE_RATE,overwrite" yaml:"updateRatePerMinute"`
	} `yaml:"consent"`

	Instance struct {
		StartingTime string `yaml:"-"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"CONSENTGATE_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CONSENTGATE_LOG_LEVEL,overwrite"   yaml:"logLevel"`
		Outputs []string `env:"CONSENTGATE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"CONSENTGATE_LOG_FORMAT,overwrite"  yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
//
// Precedence, lowest to highest: built-in defaults, YAML file, .env file,
// process environment. The config file path itself comes from the -config
// flag, then CONSENTGATE_CONFIGFILE, then ./config.yaml with a ./config.yml
// fallback.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	switch {
	case configFlagUserSet:
		configFilePath = parsedConfigFlagValue
	case os.Getenv("CONSENTGATE_CONFIGFILE") != "":
		configFilePath = os.Getenv("CONSENTGATE_CONFIGFILE")
	default:
		configFilePath = parsedConfigFlagValue

		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// ValidFor returns the consent validity window as a duration.
func (cfg *ServerConfig) ValidFor() time.Duration {
	return consent.ValidFor(cfg.Consent.ValidForMonths)
}

// CookieMaxAge returns the Max-Age attribute for the consent cookie, in seconds.
func (cfg *ServerConfig) CookieMaxAge() int {
	return consent.MaxAgeSeconds(cfg.Consent.ValidForMonths)
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
