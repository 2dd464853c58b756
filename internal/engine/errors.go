package engine

import (
	"errors"
	"fmt"

	"github.com/yacobolo/windgen/internal/css"
)

// ErrCircularApply is wrapped by the error returned when an @apply chain
// refers back to the rule it is applied in.
var ErrCircularApply = errors.New("circular @apply")

// DirectiveError reports a stylesheet directive (@apply, theme(), screen(),
// @screen, @config, @layer) that cannot be processed. Directive errors are
// fatal to the build.
type DirectiveError struct {
	Directive string
	File      string
	Line      int
	Column    int
	Reason    string
	Err       error
}

func (e *DirectiveError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Directive, e.Reason)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Directive, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Directive, e.Reason)
}

// Unwrap exposes the underlying error.
func (e *DirectiveError) Unwrap() error {
	return e.Err
}

func directiveError(n *css.Node, directive string, err error, format string, args ...any) *DirectiveError {
	e := &DirectiveError{Directive: directive, Reason: fmt.Sprintf(format, args...), Err: err}
	if n != nil && n.Source != nil {
		e.File = n.Source.File
		e.Line = n.Source.Start.Line
		e.Column = n.Source.Start.Column
	}
	return e
}
