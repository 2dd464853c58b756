// Package windgen generates atomic utility CSS on demand.
//
// Content (templates, HTML, Go source) is scanned for class-like
// candidates; each candidate that names a utility, optionally behind
// variants such as hover: or md:, is turned into a rule. The rules are
// ordered deterministically and spliced into the @tailwind directives of a
// source stylesheet, which may also use @apply, @layer, theme() and
// screen().
//
// # Compiling in memory
//
//	c := windgen.NewCompiler(nil, windgen.WithMinify(true))
//	defer c.Close()
//	res, err := c.Build("@tailwind utilities;", windgen.Content{Raw: `<div class="p-4 md:p-8">`, Extension: "html"})
//
// A Compiler is incremental: later builds reuse everything already
// generated as long as the configuration is unchanged.
//
// # Building files
//
//	res, err := windgen.Generate(windgen.Options{
//		Input:   "web/styles/app.css",
//		Output:  "web/static/app.css",
//		Content: []string{"internal/**/*.templ"},
//	})
//
// # CLI Tool
//
// windgen also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/windgen/cmd/windgen@latest
package windgen
