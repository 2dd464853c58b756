package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	Success   bool         `json:"success"`
	Input     string       `json:"input,omitempty"`
	Output    string       `json:"output,omitempty"`
	Stats     JSONStats    `json:"stats"`
	Warnings  []string     `json:"warnings"`
	Error     *JSONProblem `json:"error,omitempty"`
}

// JSONStats contains the build counters
type JSONStats struct {
	FilesDiscovered int     `json:"files_discovered"`
	FilesScanned    int     `json:"files_scanned"`
	FilesSkipped    int     `json:"files_skipped"`
	FilesRead       int     `json:"files_read"`
	Candidates      int     `json:"candidates"`
	Rules           int     `json:"rules"`
	Bytes           int     `json:"bytes"`
	DurationMS      float64 `json:"duration_ms"`
	CacheHit        bool    `json:"cache_hit"`
}

// JSONProblem is a fatal build error
type JSONProblem struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// now is replaced in tests.
var now = time.Now

// WriteJSON writes the build report as indented JSON
func WriteJSON(w io.Writer, b *Build) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(b))
}

// buildJSONOutput converts a Build to JSONOutput
func buildJSONOutput(b *Build) JSONOutput {
	warnings := b.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	out := JSONOutput{
		Version:   "1.0",
		Timestamp: now().Format(time.RFC3339),
		Success:   b.Problem == nil,
		Input:     b.Input,
		Output:    b.Output,
		Stats: JSONStats{
			FilesDiscovered: b.FilesDiscovered,
			FilesScanned:    b.FilesScanned,
			FilesSkipped:    b.FilesSkipped,
			FilesRead:       b.FilesRead,
			Candidates:      b.Candidates,
			Rules:           b.Rules,
			Bytes:           b.Bytes,
			DurationMS:      float64(b.Duration.Microseconds()) / 1000,
			CacheHit:        b.CacheHit,
		},
		Warnings: warnings,
	}
	if p := b.Problem; p != nil {
		out.Error = &JSONProblem{
			File:    p.File,
			Line:    p.Line,
			Column:  p.Column,
			Message: p.Message,
			Source:  p.Source,
		}
	}
	return out
}
