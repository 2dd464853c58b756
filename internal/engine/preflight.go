package engine

import (
	_ "embed"

	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/offsets"
)

//go:embed preflight.css
var preflightCSS string

// preflight registers the base reset. Its theme() calls are resolved with
// the rest of the stylesheet.
func preflight() corePlugin {
	return plugin("preflight", func(api *API) {
		root, err := css.Parse(preflightCSS, "preflight.css")
		if err != nil {
			api.ctx.registerErr(err)
			return
		}
		api.ctx.addStatic(root.RemoveAll(), &ruleOptions{layer: offsets.Base})
	})
}
