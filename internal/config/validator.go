package config

import (
	"fmt"
	"net/url"
	"strings"

	oerrors "github.com/pwakit/buildpack/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap marks the collection as a validation failure.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validate checks cfg for values that cannot work.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Registry != "" {
		if err := ValidateRegistry(cfg.Registry); err != nil {
			errs = append(errs, *err.(*ValidationError))
		}
	}

	if cfg.CacheDir != "" && strings.TrimSpace(cfg.CacheDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "cacheDir",
			Message: "must not be empty or whitespace only",
		})
	}

	if cfg.TemplatesDir != "" && strings.TrimSpace(cfg.TemplatesDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "templatesDir",
			Message: "must not be empty or whitespace only",
		})
	}

	seen := map[string]bool{}
	for i, a := range cfg.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		switch {
		case a.Name == "":
			errs = append(errs, ValidationError{Field: field + ".name", Message: "is required"})
		case seen[a.Name]:
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate template %q", a.Name)})
		}
		seen[a.Name] = true
		if a.Package == "" && a.Dir == "" {
			errs = append(errs, ValidationError{Field: field, Message: "needs a package or a dir"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateRegistry checks that registry is an absolute http(s) URL.
func ValidateRegistry(registry string) error {
	u, err := url.Parse(registry)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{
			Field:   "registry",
			Message: fmt.Sprintf("%q is not an http(s) URL", registry),
		}
	}
	return nil
}
