package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Log level normalization is handled in ApplyDefaults; validation accepts
// both cases.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs validation that depends on the selected
// client type.
func validateCustomRules(cfg *Config) error {
	if cfg.Client.Type == "rest" {
		rest := cfg.Client.REST
		if rest.Hostname == "" && rest.TokenURL == "" {
			return fmt.Errorf("client.rest.hostname: required when client.type is rest and no token_url is set")
		}
		if rest.ClientID == "" || rest.ClientSecret == "" {
			return fmt.Errorf("client.rest: client_id and client_secret are required")
		}
		if rest.Username == "" || rest.Password == "" {
			return fmt.Errorf("client.rest: username and password are required")
		}
		if rest.Burst < rest.RequestsPerSecond {
			return fmt.Errorf("client.rest.burst: must be at least requests_per_second (%d)", rest.RequestsPerSecond)
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics.port: required when metrics are enabled")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
