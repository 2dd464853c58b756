package datatype

import (
	"regexp"
	"strings"
)

var signedNumber = regexp.MustCompile(`^[+-]?([0-9]+|[0-9]*\.[0-9]+)(e[+-]?[0-9]+)?(%|\w+)?$`)

var negatableFuncs = []string{"var(", "calc(", "min(", "max(", "clamp("}

// Negate flips the sign of a CSS value. Plain numbers (with or without a
// unit) are flipped lexically; values using var(), calc(), min(), max()
// or clamp() are wrapped in calc(value * -1). "0" stays "0". ok is false
// when the value cannot be negated.
func Negate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "0" {
		return "0", true
	}
	if signedNumber.MatchString(value) {
		switch value[0] {
		case '-':
			return value[1:], true
		case '+':
			return "-" + value[1:], true
		}
		return "-" + value, true
	}
	for _, fn := range negatableFuncs {
		if strings.Contains(value, fn) {
			return "calc(" + value + " * -1)", true
		}
	}
	return "", false
}
