package engine

import (
	"fmt"
	"strings"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/theme"
)

// maxFunctionExpansions bounds the substitutions in one value, in case a
// theme value itself contains a call.
const maxFunctionExpansions = 64

// evaluateFunctions replaces theme() in declaration values and at-rule
// params, and screen() in at-rule params. A failing call inside a
// generated utility drops that utility with a warning; anywhere else it
// fails the build.
func (c *Context) evaluateFunctions(root *css.Node) error {
	var err error
	root.Walk(func(n *css.Node) bool {
		if err != nil {
			return false
		}
		switch n.Type {
		case css.DeclNode:
			v, ferr := c.substitute(n.Value, false)
			if ferr != nil {
				err = c.functionFailed(n, ferr)
				return false
			}
			if v != n.Value {
				n.SetValue(v)
			}
		case css.AtRuleNode:
			p, ferr := c.substitute(n.Params, true)
			if ferr != nil {
				err = c.functionFailed(n, ferr)
				return false
			}
			if p != n.Params {
				n.SetParams(p)
			}
		}
		return true
	})
	return err
}

type functionError struct {
	name string
	err  error
}

func (e *functionError) Error() string { return e.err.Error() }
func (e *functionError) Unwrap() error { return e.err }

func (c *Context) functionFailed(n *css.Node, ferr *functionError) error {
	owner := n.Closest(func(p *css.Node) bool { return p.GetData("candidate") != "" })
	if owner != nil {
		candidate := owner.GetData("candidate")
		c.invalidate(candidate)
		owner.Remove()
		c.warn(fmt.Sprintf("The utility `%s` contains an invalid theme value and was not generated.", candidate))
		return nil
	}
	return directiveError(n, ferr.name+"()", ferr.err, "%s", ferr.err.Error())
}

// substitute expands every theme() call in s, and screen() calls when
// screens is set.
func (c *Context) substitute(s string, screens bool) (string, *functionError) {
	for i := 0; i < maxFunctionExpansions; i++ {
		name, start, end := findCall(s, screens)
		if name == "" {
			return s, nil
		}
		args := s[start+len(name)+1 : end]
		var (
			out string
			err error
		)
		switch name {
		case "theme":
			out, err = c.themeCall(args)
		case "screen":
			out, err = screenCall(c.theme, args)
		}
		if err != nil {
			return "", &functionError{name: name, err: err}
		}
		s = s[:start] + out + s[end+1:]
	}
	return s, nil
}

// findCall locates the first theme( or screen( call, returning its name,
// the offset of the name and the offset of the closing paren.
func findCall(s string, screens bool) (string, int, int) {
	best, bestAt := "", -1
	names := []string{"theme"}
	if screens {
		names = append(names, "screen")
	}
	for _, name := range names {
		from := 0
		for {
			i := strings.Index(s[from:], name+"(")
			if i < 0 {
				break
			}
			i += from
			if i == 0 || !isIdentChar(s[i-1]) {
				if bestAt < 0 || i < bestAt {
					best, bestAt = name, i
				}
				break
			}
			from = i + 1
		}
	}
	if bestAt < 0 {
		return "", -1, -1
	}
	end := closingParen(s, bestAt+len(best))
	if end < 0 {
		return "", -1, -1
	}
	return best, bestAt, end
}

func isIdentChar(b byte) bool {
	return b == '-' || b == '_' || b == '.' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// closingParen returns the index of the paren closing the one at open.
func closingParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// themeCall evaluates the arguments of theme(path[, default]).
func (c *Context) themeCall(args string) (string, error) {
	parts := datatype.SplitTopLevel(args, ",")
	path := strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		def := make([]string, 0, len(parts)-1)
		for _, p := range parts[1:] {
			def = append(def, strings.TrimSpace(p))
		}
		if _, ok := c.theme.Resolve(strings.Trim(path, `'"`)); !ok {
			return strings.Join(def, ", "), nil
		}
	}
	return c.theme.Validate(path)
}

func findScreen(t *theme.Theme, name string) (theme.Screen, bool) {
	screens, _ := t.Resolve("screens")
	for _, s := range theme.NormalizeScreens(screens) {
		if s.Name == name {
			return s, true
		}
	}
	return theme.Screen{}, false
}

func screenCall(t *theme.Theme, args string) (string, error) {
	name := strings.Trim(strings.TrimSpace(args), `'"`)
	s, ok := findScreen(t, name)
	if !ok {
		return "", fmt.Errorf("The '%s' screen does not exist in your theme.", name)
	}
	return s.MediaQuery(), nil
}

// substituteScreens turns @screen name { } into the matching @media rule.
func substituteScreens(t *theme.Theme, root *css.Node) error {
	var err error
	root.WalkAtRules("screen", func(at *css.Node) {
		if err != nil {
			return
		}
		name := strings.TrimSpace(at.Params)
		s, ok := findScreen(t, name)
		if !ok {
			err = directiveError(at, "@screen", nil, "No `%s` screen found.", name)
			return
		}
		at.Name = "media"
		at.SetParams(s.MediaQuery())
	})
	return err
}
