package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error with user-friendly message.
type ValidationError struct {
	Field   string      // Field path (e.g., "push.endpoint")
	Tag     string      // Validation tag that failed (e.g., "required", "url")
	Value   interface{} // Actual value that failed validation
	Message string      // User-friendly error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// validate is the package-level validator instance.
var validate *validator.Validate

// init initializes the validator with custom validations.
func init() {
	validate = validator.New()

	// Report fields by their config key (e.g. "thresholds.cpu_usage")
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Register custom validation for timezone
	validate.RegisterValidation("timezone", validateTimezone)
}

// Validate validates the configuration and returns user-friendly error messages.
func Validate(cfg *Config) error {
	var validationErrors ValidationErrors

	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, &ValidationError{
					Field:   formatFieldName(fe.Namespace()),
					Tag:     fe.Tag(),
					Value:   fe.Value(),
					Message: translateError(fe),
				})
			}
		}
	}

	// Run custom business logic validations
	if errs := validateTimezoneConfig(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if errs := validatePushConfig(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if errs := validateCommandsFile(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateTimezone is a custom validator for timezone strings.
func validateTimezone(fl validator.FieldLevel) bool {
	tz := fl.Field().String()
	if tz == "" {
		return true // Empty is allowed, will use default
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// validateTimezoneConfig validates the timezone configuration.
func validateTimezoneConfig(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	if cfg.Report.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Report.Timezone); err != nil {
			errors = append(errors, &ValidationError{
				Field:   "report.timezone",
				Tag:     "timezone",
				Value:   cfg.Report.Timezone,
				Message: fmt.Sprintf("invalid timezone: %s", cfg.Report.Timezone),
			})
		}
	}

	return errors
}

// validatePushConfig requires an endpoint when pushing is enabled.
func validatePushConfig(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	if cfg.Push.Enabled && cfg.Push.Endpoint == "" {
		errors = append(errors, &ValidationError{
			Field:   "push.endpoint",
			Tag:     "required_when_enabled",
			Value:   "",
			Message: "endpoint is required when push is enabled",
		})
	}

	return errors
}

// validateCommandsFile checks that a configured command catalog exists.
func validateCommandsFile(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	path := cfg.Inspection.CommandsFile
	if path == "" {
		return errors
	}
	if _, err := os.Stat(path); err != nil {
		errors = append(errors, &ValidationError{
			Field:   "inspection.commands_file",
			Tag:     "file",
			Value:   path,
			Message: fmt.Sprintf("commands file not found: %s", path),
		})
	}

	return errors
}

// formatFieldName converts the validator field namespace to a user-friendly format.
// Example: "Config.push.endpoint" -> "push.endpoint"
func formatFieldName(namespace string) string {
	// Remove the root struct name (e.g., "Config.")
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // Remove "Config"
	}

	// Convert to lowercase and join
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}

// translateError converts a validator.FieldError to a user-friendly message.
func translateError(fe validator.FieldError) string {
	field := formatFieldName(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "url":
		return fmt.Sprintf("invalid URL format: %v", fe.Value())
	case "gt":
		return fmt.Sprintf("value must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	case "dive":
		return fmt.Sprintf("invalid value in list: %v", fe.Value())
	case "timezone":
		return fmt.Sprintf("invalid timezone: %v", fe.Value())
	default:
		return fmt.Sprintf("validation failed on '%s' tag for field '%s'", fe.Tag(), field)
	}
}
