// Package extract pulls class-like candidates out of arbitrary content.
//
// Extraction is permissive: anything that could be a class is
// returned and the engine discards what it cannot match.
package extract

import (
	"regexp"
	"strconv"

	"github.com/yacobolo/windgen/internal/datatype"
)

var (
	// Runs with every quote treated as a boundary.
	unquotedRun = regexp.MustCompile("[^\\s\"'`<>]+")
	// Runs in which quotes are allowed inside bracketed segments, so
	// content-['hello'] survives.
	quotedRun = regexp.MustCompile("(?:[^\\s\"'`<>\\[]|\\[[^\\s\\]`]*\\]?)+")
	// Inner words, for classes glued to punctuation (`{open:p-4}`, `p-4.`).
	innerRun = regexp.MustCompile("[^<>\"'`\\s.(){}\\[\\]#=%$][^<>\"'`\\s(){}\\[\\]#=%$]*[^<>\"'`\\s.(){}\\[\\]#=%:$]")
)

// Func extracts candidates from one chunk of content.
type Func func(content string) []string

// Extract returns the deduplicated candidates found in content, in order of
// first appearance.
func Extract(content string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, re := range []*regexp.Regexp{unquotedRun, quotedRun} {
		for _, m := range re.FindAllString(content, -1) {
			add(Clip(m))
		}
	}
	for _, m := range innerRun.FindAllString(content, -1) {
		add(Clip(m))
	}

	// Pug and Slim glue classes with dots: div.flex.px-5
	for _, candidate := range append([]string(nil), out...) {
		segments := datatype.SplitTopLevel(candidate, ".")
		if len(segments) < 2 {
			continue
		}
		for i := 0; i < len(segments); i++ {
			if i == len(segments)-1 {
				add(segments[i])
				continue
			}
			// px-1 followed by 5 means px-1.5, which is already captured.
			if _, err := strconv.ParseFloat(segments[i+1], 64); err == nil {
				i++
				continue
			}
			add(segments[i])
		}
	}
	return out
}

// Clip trims a run back to its last point of balanced bracket and quote
// nesting. An extra closing bracket ends the run just before it.
func Clip(input string) string {
	depth := 0
	var quote byte
	lastBalanced := 0
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\\':
			i++
		case c == '"' || c == '\'' || c == '`':
			if depth == 0 {
				return input[:i]
			}
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth < 0 {
				return input[:i]
			}
		}
		if depth == 0 && quote == 0 {
			lastBalanced = min(i+1, len(input))
		}
	}
	if depth != 0 || quote != 0 {
		return input[:lastBalanced]
	}
	return input
}
