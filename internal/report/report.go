// Package report renders build outcomes for terminals and machines.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Format selects how a build is reported.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatQuiet Format = "quiet"
)

// ParseFormat maps a flag value to a Format. quiet wins over the flag;
// unknown or empty values fall back to text.
func ParseFormat(flag string, quiet bool) Format {
	if quiet {
		return FormatQuiet
	}
	switch strings.ToLower(flag) {
	case "json":
		return FormatJSON
	case "quiet", "none":
		return FormatQuiet
	}
	return FormatText
}

// Problem is a fatal error with an optional source location.
type Problem struct {
	File    string
	Line    int
	Column  int
	Message string
	// Source is the offending source line, when known.
	Source string
}

// Build summarises one build.
type Build struct {
	Input  string
	Output string

	FilesDiscovered int
	FilesScanned    int
	FilesSkipped    int
	// FilesRead counts files read because they were new or changed.
	FilesRead int

	Candidates int
	Rules      int
	Bytes      int
	Duration   time.Duration
	CacheHit   bool

	Warnings []string
	Problem  *Problem
}

// ShouldUseColors determines if colors should be enabled.
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stderr.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// Write reports b in format.
func Write(w io.Writer, b *Build, format Format, useColors bool) error {
	switch format {
	case FormatQuiet:
		return nil
	case FormatJSON:
		return WriteJSON(w, b)
	}
	r := NewReporter(w, useColors)
	if b.Problem != nil {
		r.PrintProblem(*b.Problem)
	}
	r.PrintWarnings(b.Warnings)
	r.PrintStatistics(*b)
	r.PrintResult(*b)
	return r.err
}

// Reporter writes text reports.
type Reporter struct {
	w         io.Writer
	useColors bool
	err       error
}

// NewReporter creates a text reporter.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

func (r *Reporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) println(s string) {
	r.printf("%s\n", s)
}

// PrintProblem prints a fatal error as `file:line:col: message`, followed
// by the source line and a caret when the location is known.
func (r *Reporter) PrintProblem(p Problem) {
	location := p.File
	if p.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	if location != "" {
		location = RenderStyle(StyleCyan, location+":", r.useColors) + " "
	}
	r.printf("%s%s\n", location, RenderStyle(StyleRed, p.Message, r.useColors))

	if p.Source != "" {
		r.printf("\t%s\n", p.Source)
		r.printf("\t%s\n", RenderStyle(StyleYellow, CaretIndicator(p.Source, p.Column), r.useColors))
	}
}

// CaretIndicator creates the "^" indicator aligned with the column,
// reusing the tabs of the source line so it lines up in any tab width.
func CaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}
	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}
	return padding.String() + "^"
}

// PrintWarnings lists the build warnings.
func (r *Reporter) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	r.println("")
	r.println(RenderStyle(StyleYellow, "Warnings", r.useColors))
	r.println("--------")
	for _, warning := range warnings {
		r.printf("• %s\n", warning)
	}
}

// PrintStatistics prints the counters of a successful build.
func (r *Reporter) PrintStatistics(b Build) {
	if b.Problem != nil {
		return
	}
	r.println("")
	r.println(RenderStyle(StyleCyan, "Build Statistics", r.useColors))
	r.println("----------------")
	if b.Input != "" {
		r.printf("Input:          %s\n", b.Input)
	}
	r.printf("Files Scanned:  %d", b.FilesScanned)
	if b.FilesSkipped > 0 || b.FilesRead != b.FilesScanned {
		r.printf(" %s", RenderStyle(StyleGray, fmt.Sprintf("(%d read, %d skipped)", b.FilesRead, b.FilesSkipped), r.useColors))
	}
	r.println("")
	r.printf("Candidates:     %d\n", b.Candidates)
	r.printf("Rules:          %d\n", b.Rules)
	r.printf("Size:           %s\n", FormatBytes(b.Bytes))
	cache := "miss"
	if b.CacheHit {
		cache = "hit"
	}
	r.printf("Context Cache:  %s\n", cache)
}

// PrintResult prints the one line outcome.
func (r *Reporter) PrintResult(b Build) {
	r.println("")
	if b.Problem != nil {
		r.println(RenderStyle(StyleRed, "✗ Build failed", r.useColors))
		return
	}
	target := b.Output
	if target == "" {
		target = "stdout"
	}
	msg := fmt.Sprintf("✓ Built %s in %s", target, FormatDuration(b.Duration))
	if n := len(b.Warnings); n > 0 {
		msg += fmt.Sprintf(" with %s", pluralizeCount(n, "warning", "warnings"))
	}
	r.println(RenderStyle(StyleGreen, msg, r.useColors))
}

// FormatBytes renders a size with a binary unit.
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(100 * time.Microsecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
