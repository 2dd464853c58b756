package selector

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var excessiveSpaces = regexp.MustCompile(`(^|\\+)?(\\[A-F0-9]{1,6}) ([^a-fA-F0-9 ]|$)`)

// Escape turns a class name into a valid CSS identifier, the way
// CSS.escape does for identifiers. Commas are hex-escaped so the result
// can be placed inside selector lists.
func Escape(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\` + strings.ToUpper(strconv.FormatInt(int64(r), 16)) + " ")
		case r == ',':
			b.WriteString(`\2c `)
		case isSingleEscape(r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()

	if len(out) > 1 && out[0] == '-' && (out[1] == '-' || isDigit(out[1])) {
		out = `\-` + out[1:]
	} else if len(out) > 0 && isDigit(out[0]) {
		out = `\3` + out[:1] + " " + out[1:]
	}

	return dropExcessiveSpaces(out)
}

func dropExcessiveSpaces(s string) string {
	// The trailing space after a hex escape is only needed when the next
	// character could be read as part of the escape.
	for {
		next := excessiveSpaces.ReplaceAllStringFunc(s, func(m string) string {
			sub := excessiveSpaces.FindStringSubmatch(m)
			if len(sub[1])%2 == 1 {
				return m
			}
			return sub[1] + sub[2] + sub[3]
		})
		if next == s {
			return s
		}
		s = next
	}
}

func isSingleEscape(r rune) bool {
	switch {
	case r >= ' ' && r <= ',':
		return true
	case r == '.' || r == '/':
		return true
	case r >= ':' && r <= '@':
		return true
	case r >= '[' && r <= '^':
		return true
	case r == '`':
		return true
	case r >= '{' && r <= '~':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Unescape resolves CSS escapes in an identifier.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(s) && j-i <= 6 && isHex(s[j]) {
			j++
		}
		if j > i+1 {
			v, _ := strconv.ParseUint(s[i+1:j], 16, 32)
			r := rune(v)
			if r == 0 || !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
			if j < len(s) && s[j] == ' ' {
				j++
			}
			i = j - 1
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i+1:])
		b.WriteString(s[i+1 : i+1+size])
		i += size
	}
	return b.String()
}
