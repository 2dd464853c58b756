package engine

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/theme"
)

const utilitiesOnly = "@tailwind utilities;"

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.CorePlugins.Disabled = map[string]bool{"preflight": true}
	return cfg
}

func newContext(t *testing.T, cfg *config.Config, source string, plugins ...Plugin) (*Context, *css.Node) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	root, err := css.Parse(source, "input.css")
	require.NoError(t, err)
	layers, err := CollectLayers(root)
	require.NoError(t, err)
	ctx, err := NewContext(cfg, layers, plugins...)
	require.NoError(t, err)
	return ctx, root
}

// build runs one build and returns the minified stylesheet.
func build(t *testing.T, cfg *config.Config, source string, candidates ...string) (string, *BuildResult) {
	t.Helper()
	ctx, root := newContext(t, cfg, source)
	res, err := ctx.Build(root, candidates)
	require.NoError(t, err)
	return root.Minified(), res
}

func rebuild(t *testing.T, ctx *Context, source string, candidates ...string) (string, *BuildResult) {
	t.Helper()
	root, err := css.Parse(source, "input.css")
	require.NoError(t, err)
	_, err = CollectLayers(root)
	require.NoError(t, err)
	res, err := ctx.Build(root, candidates)
	require.NoError(t, err)
	return root.Minified(), res
}

func assertOrder(t *testing.T, out string, parts ...string) {
	t.Helper()
	last := -1
	for _, p := range parts {
		i := strings.Index(out, p)
		require.NotEqual(t, -1, i, "missing %q in %s", p, out)
		assert.Greater(t, i, last, "%q is out of order in %s", p, out)
		last = i
	}
}

func TestBuild_Utilities(t *testing.T) {
	out, res := build(t, nil, utilitiesOnly, "p-4", "m-2", "not-a-class")
	assert.Equal(t, ".m-2{margin:0.5rem}.p-4{padding:1rem}", out)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 2, res.Rules)
	assert.Equal(t, 2, res.Generated)
	assert.Empty(t, res.Warnings)
}

func TestBuild_Candidates(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"negative value", "-mt-4", ".-mt-4{margin-top:-1rem}"},
		{"fraction", "w-1/2", `.w-1\/2{width:50%}`},
		{"arbitrary value", "w-[37px]", `.w-\[37px\]{width:37px}`},
		{"arbitrary value with spaces", "grid-cols-[1fr_2fr]", `grid-template-columns:1fr 2fr`},
		{"arbitrary property", "[mask-type:luminance]", `.\[mask-type\:luminance\]{mask-type:luminance}`},
		{"color", "text-red-500", `.text-red-500{--tw-text-opacity:1;color:rgb(239 68 68 / var(--tw-text-opacity))}`},
		{"color with opacity", "bg-red-500/50", `.bg-red-500\/50{background-color:rgb(239 68 68 / 0.5)}`},
		{"font size with line height", "text-sm/6", "font-size:0.875rem;line-height:1.5rem"},
		{"important", "!p-4", `.\!p-4{padding:1rem!important}`},
		{"important after variant", "md:!p-4", `@media (min-width: 768px){.md\:\!p-4{padding:1rem!important}}`},
		{"important before variant", "!md:p-4", `@media (min-width: 768px){.\!md\:p-4{padding:1rem!important}}`},
		{"important before pseudo variant", "!hover:underline", `.\!hover\:underline:hover{text-decoration-line:underline!important}`},
		{"static", "underline", ".underline{text-decoration-line:underline}"},
		{"nested selector", "space-x-4", ".space-x-4 > :not([hidden]) ~ :not([hidden]){"},
		{"keyframes", "animate-spin", "@keyframes spin"},
		{"animation", "animate-spin", "animation:spin 1s linear infinite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := build(t, nil, utilitiesOnly, tt.candidate)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestBuild_Unknown(t *testing.T) {
	for _, cand := range []string{"p-nope", "hover", "unknown:p-4", "[color:red", "[color:red;]", "-p-4"} {
		t.Run(cand, func(t *testing.T) {
			out, res := build(t, nil, utilitiesOnly, cand)
			assert.Empty(t, out)
			assert.Contains(t, res.Warnings, noUtilitiesWarning)
		})
	}
}

func TestBuild_OrderIndependent(t *testing.T) {
	cands := []string{"hover:underline", "md:p-4", "p-2", "m-1", "bg-red-500", "lg:p-4", "focus:underline"}
	reversed := make([]string, len(cands))
	for i, c := range cands {
		reversed[len(cands)-1-i] = c
	}

	a, _ := build(t, nil, utilitiesOnly, cands...)
	b, _ := build(t, nil, utilitiesOnly, reversed...)
	assert.Equal(t, a, b)

	assertOrder(t, a, ".m-1{", ".p-2{", `.hover\:underline:hover`, `.focus\:underline:focus`,
		`@media (min-width: 768px){.md\:p-4{padding:1rem}}`, `@media (min-width: 1024px){.lg\:p-4{padding:1rem}}`)
}

func TestBuild_Incremental(t *testing.T) {
	ctx, root := newContext(t, nil, utilitiesOnly)
	res, err := ctx.Build(root, []string{"p-4"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
	first := root.Minified()

	second, res := rebuild(t, ctx, utilitiesOnly, "p-4")
	assert.Equal(t, first, second)
	assert.Zero(t, res.Generated)

	third, res := rebuild(t, ctx, utilitiesOnly, "m-2")
	assert.Equal(t, 1, res.Generated)
	assert.Equal(t, ".m-2{margin:0.5rem}.p-4{padding:1rem}", third, "candidates accumulate across builds")
	assert.Equal(t, 2, res.Candidates)

	_, res = rebuild(t, ctx, utilitiesOnly, "not-a-class", "still-not")
	assert.Zero(t, res.Generated)
	assert.True(t, ctx.notClass["not-a-class"])
}

func TestBuild_NotClassIsRemembered(t *testing.T) {
	ctx, root := newContext(t, nil, utilitiesOnly)
	_, err := ctx.Build(root, []string{"not-a-class"})
	require.NoError(t, err)
	require.True(t, ctx.notClass["not-a-class"])

	// Registrations made on a live context do not revisit rejected
	// candidates; a new set of registrations needs a new context.
	(&API{ctx: ctx}).AddUtilities(Rules{R(".not-a-class", Decl("color", "red"))})
	out, res := rebuild(t, ctx, utilitiesOnly, "not-a-class")
	assert.Empty(t, out)
	assert.Zero(t, res.Generated)

	plugin := PluginFunc(func(api *API) {
		api.AddUtilities(Rules{R(".not-a-class", Decl("color", "red"))})
	})
	ctx, root = newContext(t, nil, utilitiesOnly, plugin)
	_, err = ctx.Build(root, []string{"not-a-class"})
	require.NoError(t, err)
	assert.Equal(t, ".not-a-class{color:red}", root.Minified())
}

func TestBuild_IncrementalArbitraryVariantOrder(t *testing.T) {
	ctx, root := newContext(t, nil, utilitiesOnly)
	_, err := ctx.Build(root, []string{"[&:nth-child(3)]:underline"})
	require.NoError(t, err)

	out, res := rebuild(t, ctx, utilitiesOnly, "[&:nth-child(1)]:underline")
	assert.Equal(t, 1, res.Generated)
	assertOrder(t, out, ":nth-child(1){", ":nth-child(3){")
}

func TestBuild_Base(t *testing.T) {
	out, _ := build(t, config.Default(), "@tailwind base;")
	assert.Contains(t, out, "box-sizing:border-box")
	assert.Contains(t, out, "*, ::before, ::after{")
	assert.Contains(t, out, "::backdrop{")
	assert.Contains(t, out, "--tw-ring-color:rgb(59 130 246 / 0.5)")
	assertOrder(t, out, "box-sizing:border-box", "--tw-ring-color")

	out, _ = build(t, nil, "@tailwind base;")
	assert.NotContains(t, out, "box-sizing:border-box")
}

func TestBuild_Components(t *testing.T) {
	src := "@tailwind components;\n@tailwind utilities;"
	out, _ := build(t, nil, src, "container", "p-4", "md:container")
	assertOrder(t, out, ".container{width:100%}", ".p-4{", `.md\:container{max-width:768px}`)
}

func TestBuild_VariantsPlaceholder(t *testing.T) {
	src := "@tailwind utilities;\n.after { color: red; }\n@tailwind variants;"
	out, _ := build(t, nil, src, "hover:underline", "p-4")
	assertOrder(t, out, ".p-4{", ".after{", `.hover\:underline:hover`)
}

func TestBuild_Prefix(t *testing.T) {
	cfg := testConfig()
	cfg.Prefix = "tw-"
	out, _ := build(t, cfg, utilitiesOnly, "tw-p-4", "p-2", "-tw-mt-4", "hover:tw-underline")
	assert.Contains(t, out, ".tw-p-4{padding:1rem}")
	assert.Contains(t, out, ".-tw-mt-4{margin-top:-1rem}")
	assert.Contains(t, out, `.hover\:tw-underline:hover{`)
	assert.NotContains(t, out, ".p-2")
}

func TestBuild_Important(t *testing.T) {
	cfg := testConfig()
	cfg.Important = config.Important{Enabled: true}
	out, _ := build(t, cfg, utilitiesOnly, "p-4")
	assert.Equal(t, ".p-4{padding:1rem!important}", out)

	cfg = testConfig()
	cfg.Important = config.Important{Enabled: true, Selector: "#app"}
	out, _ = build(t, cfg, utilitiesOnly, "p-4")
	assert.Equal(t, "#app :is(.p-4){padding:1rem}", out)
}

func TestBuild_Blocklist(t *testing.T) {
	cfg := testConfig()
	cfg.Blocklist = []string{"p-4"}
	out, _ := build(t, cfg, "@blocklist m-2 /^w-/;\n"+utilitiesOnly, "p-4", "m-2", "w-4", "h-4")
	assert.Equal(t, ".h-4{height:1rem}", out)
}

func TestBuild_Safelist(t *testing.T) {
	cfg := testConfig()
	cfg.Safelist = []config.SafelistEntry{
		{Literal: "underline"},
		{Pattern: regexp.MustCompile(`^bg-red-500$`), Variants: []string{"hover"}},
		{Pattern: regexp.MustCompile(`^nothing-`)},
	}
	out, res := build(t, cfg, "@safelist italic;\n"+utilitiesOnly)
	assert.Contains(t, out, ".underline{")
	assert.Contains(t, out, ".italic{")
	assert.Contains(t, out, ".bg-red-500{")
	assert.Contains(t, out, `.hover\:bg-red-500:hover{`)
	assert.NotContains(t, out, "@safelist")

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "The safelist pattern `/^nothing-/` doesn't match any classes.")
}

func TestBuild_SafelistDirectivePattern(t *testing.T) {
	out, _ := build(t, nil, "@safelist /^bg-(red|blue)-500$/;\n"+utilitiesOnly)
	assert.Contains(t, out, ".bg-red-500{")
	assert.Contains(t, out, ".bg-blue-500{")
	assert.NotContains(t, out, ".bg-green-500{")
}

func TestBuild_Ambiguous(t *testing.T) {
	tab := func(prop string) UtilityFunc {
		return func(v theme.Value, _ Info) Style {
			s, _ := theme.Stringify(v)
			return Decls(prop, s)
		}
	}
	ambiguous := PluginFunc(func(api *API) {
		api.MatchUtilities([]Utility{U("tab", tab("tab-size"))}, MatchOptions{Types: Types(datatype.Length)})
		api.MatchUtilities([]Utility{U("tab", tab("width"))}, MatchOptions{Types: Types(datatype.Length)})
	})
	ctx, root := newContext(t, nil, utilitiesOnly, ambiguous)
	res, err := ctx.Build(root, []string{"tab-[10px]"})
	require.NoError(t, err)
	assert.Empty(t, root.Minified())
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "The class `tab-[10px]` is ambiguous and matches multiple utilities.")
	assert.Contains(t, res.Warnings[0], "tab-&lsqb;10px&rsqb;")

	preferred := PluginFunc(func(api *API) {
		api.MatchUtilities([]Utility{U("tab", tab("tab-size"))}, MatchOptions{Types: Types(datatype.Length)})
		api.MatchUtilities([]Utility{U("tab", tab("width"))},
			MatchOptions{Types: []TypeSpec{{Type: datatype.Length, PreferOnConflict: true}}})
	})
	ctx, root = newContext(t, nil, utilitiesOnly, preferred)
	_, err = ctx.Build(root, []string{"tab-[10px]"})
	require.NoError(t, err)
	assert.Equal(t, `.tab-\[10px\]{width:10px}`, root.Minified())
}

func TestBuild_AmbiguousDistinctTypes(t *testing.T) {
	tab := func(prop string) UtilityFunc {
		return func(v theme.Value, _ Info) Style {
			s, _ := theme.Stringify(v)
			return Decls(prop, s)
		}
	}
	plugin := PluginFunc(func(api *API) {
		api.MatchUtilities([]Utility{U("tab", tab("tab-size"))}, MatchOptions{Types: Types(datatype.Length)})
		api.MatchUtilities([]Utility{U("tab", tab("width"))}, MatchOptions{Types: Types(datatype.Percentage)})
	})
	ctx, root := newContext(t, nil, utilitiesOnly, plugin)
	res, err := ctx.Build(root, []string{"tab-[calc(1px+2px)]"})
	require.NoError(t, err)
	assert.Empty(t, root.Minified())

	require.Len(t, res.Warnings, 2)
	warning := res.Warnings[0]
	assert.Contains(t, warning, "The class `tab-[calc(1px+2px)]` is ambiguous and matches multiple utilities.")
	assert.Contains(t, warning, "Use `tab-[length:calc(1px+2px)]` for `tab-size: ")
	assert.Contains(t, warning, "Use `tab-[percentage:calc(1px+2px)]` for `width: ")
	assert.Equal(t, noUtilitiesWarning, res.Warnings[1])
}

func TestBuild_UserPlugin(t *testing.T) {
	plugin := PluginFunc(func(api *API) {
		api.AddUtilities(Rules{R(".content-auto", Decl("contentVisibility", "auto"))})
		api.AddVariant("hocus", "&:hover", "&:focus")
		api.MatchUtilities([]Utility{U("tab", func(v theme.Value, _ Info) Style {
			s, _ := theme.Stringify(v)
			return Decls("tab-size", s)
		})}, MatchOptions{Values: theme.S("2", "2", "4", "4")})
	})
	ctx, root := newContext(t, nil, utilitiesOnly, plugin)
	_, err := ctx.Build(root, []string{"content-auto", "tab-4", "hocus:underline"})
	require.NoError(t, err)
	out := root.Minified()
	assert.Contains(t, out, ".content-auto{content-visibility:auto}")
	assert.Contains(t, out, ".tab-4{tab-size:4}")
	assertOrder(t, out, `.hocus\:underline:hover{`, `.hocus\:underline:focus{`)

	assert.Contains(t, ctx.ClassList(), "tab-2")
	assert.Contains(t, ctx.ClassList(), "content-auto")
	assert.Contains(t, ctx.Variants(), "hocus")
}

func TestNewContext_RegistrationErrors(t *testing.T) {
	plugin := PluginFunc(func(api *API) {
		api.AddVariant("broken", "hover")
	})
	root, err := css.Parse(utilitiesOnly, "")
	require.NoError(t, err)
	ctx, err := NewContext(testConfig(), nil, plugin)
	assert.ErrorContains(t, err, "invalid format")
	require.NotNil(t, ctx)

	_, err = ctx.Build(root, []string{"p-4"})
	assert.NoError(t, err)
	assert.Equal(t, ".p-4{padding:1rem}", root.Minified())
}

func TestContext_ClassList(t *testing.T) {
	ctx, _ := newContext(t, nil, utilitiesOnly)
	classes := ctx.ClassList()
	for _, want := range []string{"p-4", "underline", "bg-red-500", "container", "text-sm", "w-1/2"} {
		assert.Contains(t, classes, want)
	}
	assert.True(t, sortedStrings(classes))

	variants := ctx.Variants()
	for _, want := range []string{"hover", "focus", "md", "dark", "group", "peer", "print"} {
		assert.Contains(t, variants, want)
	}
}

func TestCorePluginsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.CorePlugins.Disabled["padding"] = true
	out, _ := build(t, cfg, utilitiesOnly, "p-4", "m-2")
	assert.Equal(t, ".m-2{margin:0.5rem}", out)
}

func TestThemeExtend(t *testing.T) {
	cfg := testConfig()
	cfg.Extend.Set("spacing", theme.S("128", "32rem"))
	cfg.Extend.Set("colors", theme.S("brand", "#0ea5e9"))
	out, _ := build(t, cfg, utilitiesOnly, "w-128", "p-4", "text-brand")
	assert.Contains(t, out, ".w-128{width:32rem}")
	assert.Contains(t, out, ".p-4{padding:1rem}")
	assert.Contains(t, out, "color:rgb(14 165 233 / var(--tw-text-opacity))")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
