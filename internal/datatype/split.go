// Package datatype classifies raw CSS value fragments (lengths, colors,
// urls, images, shadows, font families, ...) and normalizes arbitrary
// values written inside class names.
package datatype

import "strings"

// SplitTopLevel splits input on sep, ignoring separators nested inside
// (), [] or {} and inside quotes within those brackets. A separator
// preceded by a backslash is not a boundary.
func SplitTopLevel(input, sep string) []string {
	if sep == "" {
		return []string{input}
	}
	var (
		stack   []byte
		parts   []string
		last    int
		escaped bool
		quote   byte
	)
	for i := 0; i < len(input); i++ {
		c := input[i]
		if quote != 0 {
			if !escaped && c == quote {
				quote = 0
			}
			escaped = !escaped && c == '\\'
			continue
		}
		if len(stack) == 0 && !escaped && c == sep[0] && strings.HasPrefix(input[i:], sep) {
			parts = append(parts, input[last:i])
			last = i + len(sep)
			i += len(sep) - 1
			escaped = false
			continue
		}
		wasEscaped := escaped
		escaped = !escaped && c == '\\'
		if wasEscaped {
			continue
		}
		switch c {
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if n := len(stack); n > 0 && stack[n-1] == opening(c) {
				stack = stack[:n-1]
			}
		case '"', '\'':
			if len(stack) > 0 {
				quote = c
			}
		}
	}
	return append(parts, input[last:])
}

func opening(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	}
	return '{'
}

// Balanced reports whether brackets and quotes in s are balanced.
func Balanced(s string) bool {
	var stack []byte
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			i++
			continue
		}
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != opening(c) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0 && quote == 0
}

// ValidPropertyValue reports whether value can sit on the right hand side
// of a declaration: brackets balance and there is no colon or semicolon
// outside quotes and brackets.
func ValidPropertyValue(value string) bool {
	var stack []byte
	inQuotes := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c == ':' || c == ';') && !inQuotes && len(stack) == 0 {
			return false
		}
		escaped := i > 0 && value[i-1] == '\\'
		if (c == '"' || c == '\'' || c == '`') && !escaped {
			inQuotes = !inQuotes
		}
		if inQuotes || escaped {
			continue
		}
		switch c {
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != opening(c) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// IsArbitrary reports whether v is a bracketed arbitrary value.
func IsArbitrary(v string) bool {
	return len(v) >= 2 && v[0] == '[' && v[len(v)-1] == ']'
}
