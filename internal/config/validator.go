package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()
	registerCustomRules(validate)

	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(formatValidationErrors(errs), "\n  "))
		}
		return fmt.Errorf("configuration validation error: %w", err)
	}

	return validateCrossFieldRules(cfg)
}

func registerCustomRules(validate *validator.Validate) {
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("diffunit", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "words", "word", "lines", "line":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("provider", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "local", "remote":
			return true
		default:
			return false
		}
	})
}

func validateCrossFieldRules(cfg *GlobalConfig) error {
	var messages []string

	if strings.EqualFold(cfg.ExtractorConfig.Provider, "remote") && cfg.ExtractorConfig.BaseURL == "" {
		messages = append(messages, "Validation failed for 'ExtractorConfig.BaseURL': rule 'required' (provider is remote)")
	}
	if cfg.InsightsConfig.Enabled && cfg.InsightsConfig.APIKey == "" {
		messages = append(messages, "Validation failed for 'InsightsConfig.APIKey': rule 'required' (insights enabled)")
	}
	if cfg.StorageConfig.CacheEnabled && cfg.StorageConfig.SQLiteDBPath == "" {
		messages = append(messages, "Validation failed for 'StorageConfig.SQLiteDBPath': rule 'required' (cache enabled)")
	}

	if len(messages) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		fieldName := strings.TrimPrefix(e.StructNamespace(), "GlobalConfig.")
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return messages
}
