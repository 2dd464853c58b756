package config

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	classPrefixPattern = regexp.MustCompile(`^-?[a-zA-Z_][a-zA-Z0-9_-]*$`)
)

// validatorInstance configures and returns the shared validator.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("classprefix", func(fl validator.FieldLevel) bool {
			return classPrefixPattern.MatchString(fl.Field().String())
		})

		// A separator must be non empty, free of whitespace and must not
		// collide with the characters candidates are built from.
		_ = v.RegisterValidation("separator", func(fl validator.FieldLevel) bool {
			sep := fl.Field().String()
			if sep == "" || strings.ContainsAny(sep, "[]()'\"`") {
				return false
			}
			return !strings.ContainsFunc(sep, unicode.IsSpace)
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks c, resets every invalid field to its default and
// returns one warning per reset.
func Validate(c *Config) []*ValidationError {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []*ValidationError{{Message: err.Error(), Err: err}}
	}

	defaults := Default()
	var out []*ValidationError
	for _, fe := range fieldErrs {
		ns := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch {
		case ns == "Prefix":
			out = append(out, warn("prefix", "%q is not a valid class prefix, ignoring it", c.Prefix))
			c.Prefix = defaults.Prefix
		case ns == "Separator":
			out = append(out, warn("separator", "%q cannot be used as a variant separator, using %q", c.Separator, defaults.Separator))
			c.Separator = defaults.Separator
		case strings.HasPrefix(ns, "DarkMode"):
			out = append(out, warn("darkMode", "%q is not a supported dark mode, using %q", c.DarkMode.Strategy, DarkMedia))
			c.DarkMode = defaults.DarkMode
		case strings.HasPrefix(ns, "Blocklist"):
			out = append(out, warn("blocklist", "empty blocklist entries are ignored"))
			kept := c.Blocklist[:0]
			for _, b := range c.Blocklist {
				if b != "" {
					kept = append(kept, b)
				}
			}
			c.Blocklist = kept
		default:
			out = append(out, &ValidationError{Field: ns, Message: fe.Error(), Err: fe})
		}
	}
	return out
}
