package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key, e.g. "parallel"
	Value   any    // The invalid value
	Message string // Human-readable error description
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Credentials only matter when a server is configured.
	if c.Server != "" {
		required := []struct {
			field string
			value string
		}{
			{"school", c.School},
			{"username", c.Username},
			{"password", c.Password},
		}
		for _, r := range required {
			if r.value == "" {
				errors = append(errors, ValidationError{
					Field:   r.field,
					Value:   r.value,
					Message: "must be set when server is configured",
				})
			}
		}
	}

	if _, err := c.ClassNames(); err != nil {
		errors = append(errors, ValidationError{
			Field:   "classes",
			Value:   c.Classes,
			Message: err.Error(),
		})
	}

	if !IsValidFormat(c.Format) {
		errors = append(errors, ValidationError{
			Field:   "format",
			Value:   c.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidFormats(), ", ")),
		})
	}

	if c.Parallel < 1 {
		errors = append(errors, ValidationError{
			Field:   "parallel",
			Value:   c.Parallel,
			Message: "must be at least 1",
		})
	}

	if c.InstructionActivity == "" {
		errors = append(errors, ValidationError{
			Field:   "instruction_activity",
			Value:   c.InstructionActivity,
			Message: "must not be empty",
		})
	}

	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errors = append(errors, ValidationError{
				Field:   "timezone",
				Value:   c.Timezone,
				Message: "unknown timezone",
			})
		}
	}

	return errors
}
