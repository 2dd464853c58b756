package windgen

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/engine"
	"github.com/yacobolo/windgen/internal/report"
)

// ReportFormat selects how WriteReport renders a build.
type ReportFormat = report.Format

// Report formats.
const (
	ReportText  = report.FormatText
	ReportJSON  = report.FormatJSON
	ReportQuiet = report.FormatQuiet
)

// DetermineOutputFormat selects the report format from flags. quiet wins.
func DetermineOutputFormat(formatFlag string, quiet bool) ReportFormat {
	return report.ParseFormat(formatFlag, quiet)
}

// WriteReport writes the build report for res in the given format.
func WriteReport(w io.Writer, res *GenerateResult, format ReportFormat, useColors bool) error {
	return report.Write(w, toReport(res), format, useColors)
}

func toReport(res *GenerateResult) *report.Build {
	b := &report.Build{
		Input:           res.Input,
		Output:          res.Output,
		FilesDiscovered: res.Stats.FilesDiscovered,
		FilesScanned:    res.Stats.FilesScanned,
		FilesSkipped:    res.Stats.FilesSkipped,
		FilesRead:       res.FilesRead,
		Candidates:      res.Candidates,
		Rules:           res.Rules,
		Bytes:           len(res.CSS),
		Duration:        res.Duration,
		CacheHit:        res.CacheHit,
		Warnings:        res.Warnings,
	}
	if res.Err != nil {
		b.Problem = problemFromError(res.Err, res.Input, res.source)
	}
	return b
}

// problemFromError locates err in the input stylesheet when it carries a
// position.
func problemFromError(err error, input, source string) *report.Problem {
	p := &report.Problem{Message: err.Error()}

	var syn *css.SyntaxError
	var dir *engine.DirectiveError
	switch {
	case errors.As(err, &syn):
		p.File, p.Line, p.Column = syn.File, syn.Line, syn.Column
		p.Message = syn.Reason
	case errors.As(err, &dir):
		p.File, p.Line, p.Column = dir.File, dir.Line, dir.Column
		p.Message = dir.Directive + ": " + dir.Reason
	default:
		return p
	}
	if p.File == "" {
		p.File = input
	}
	if p.File == input {
		p.Source = sourceLine(source, p.Line)
	}
	if filepath.IsAbs(p.File) {
		p.File = GetRelativePath(p.File)
	}
	return p
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
