package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustString(t *testing.T, th *Theme, path string) string {
	t.Helper()
	v, ok := th.Resolve(path)
	require.True(t, ok, "path %s", path)
	s, ok := Stringify(v)
	require.True(t, ok, "path %s", path)
	return s
}

func TestResolve(t *testing.T) {
	th := Default()

	tests := []struct {
		path string
		want string
	}{
		{"colors.red.500", "#ef4444"},
		{"colors.red.500 / 50%", "rgb(239 68 68 / 50%)"},
		{"spacing.4", "1rem"},
		{"spacing.2.5", "0.625rem"},
		{"spacing[2.5]", "0.625rem"},
		{"'spacing.px'", "1px"},
		{"padding.4", "1rem"},
		{"borderColor.DEFAULT", "#e5e7eb"},
		{"maxWidth.screen-md", "768px"},
		{"width[1/2]", "50%"},
		{"fontFamily.mono.0", "ui-monospace"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, mustString(t, th, tt.path))
		})
	}

	_, ok := th.Resolve("colors.nope.500")
	assert.False(t, ok)
	_, ok = th.Resolve("spacing[2.5")
	assert.False(t, ok)
	assert.Equal(t, Literal("x"), th.ResolveOr("colors.nope", Literal("x")))
}

func TestOverrideAndExtend(t *testing.T) {
	override := S("spacing", S("1", "4px"))
	extend := S("colors", S("brand", "#123456"), "spacing", S("huge", "100rem"))
	th := New(DefaultTable(), override, extend)

	_, ok := th.Resolve("spacing.2")
	assert.False(t, ok, "override replaces the base table")
	assert.Equal(t, "4px", mustString(t, th, "spacing.1"))
	assert.Equal(t, "100rem", mustString(t, th, "spacing.huge"))
	assert.Equal(t, "4px", mustString(t, th, "padding.1"), "computed entries see the merged table")
	assert.Equal(t, "#123456", mustString(t, th, "colors.brand"))
	assert.Equal(t, "#ef4444", mustString(t, th, "colors.red.500"))
}

func TestExtendSelfReferenceSeesLowerLayers(t *testing.T) {
	extend := S("colors", Computed(func(a Accessor) Value {
		return S("primary", a.Theme("colors.blue.500"))
	}))
	second := S("colors", Computed(func(a Accessor) Value {
		return S("secondary", a.Theme("colors.primary"))
	}))
	th := New(DefaultTable(), nil, extend, second)

	assert.Equal(t, "#3b82f6", mustString(t, th, "colors.primary"))
	assert.Equal(t, "#3b82f6", mustString(t, th, "colors.secondary"))
	assert.Equal(t, "#3b82f6", mustString(t, th, "backgroundColor.primary"))
}

func TestIndirectCycleTerminates(t *testing.T) {
	th := New(S("a", ref("b"), "b", ref("a")), nil)
	_, ok := th.Resolve("a")
	assert.False(t, ok)
}

func TestPaletteReferences(t *testing.T) {
	extend := S("colors", S("brand", "palette.lightBlue", "accent", "palette.rose", "bad", "palette.nope"))
	th := New(DefaultTable(), nil, extend)

	assert.Equal(t, "#0ea5e9", mustString(t, th, "colors.brand.500"))
	assert.Equal(t, "#f43f5e", mustString(t, th, "colors.accent.500"))
	require.Len(t, th.Warnings(), 2)
	assert.Contains(t, th.Warnings()[0], "`lightBlue` has been renamed to `sky`")
	assert.Contains(t, th.Warnings()[1], `unknown palette color "nope"`)
}

func TestAlphaPlaceholder(t *testing.T) {
	th := New(DefaultTable(), nil, S("colors", S("brand", "rgb(var(--brand) / <alpha-value>)")))

	assert.Equal(t, "rgb(var(--brand) / 0.5)", mustString(t, th, "colors.brand / 0.5"))

	out, err := th.Validate("colors.brand")
	require.NoError(t, err)
	assert.Equal(t, "rgb(var(--brand) / 1)", out)
}

func TestValidate(t *testing.T) {
	th := Default()

	tests := []struct {
		path    string
		want    string
		wantErr string
	}{
		{path: "spacing.4", want: "1rem"},
		{path: "fontFamily.sans", want: `ui-sans-serif, system-ui, sans-serif, "Apple Color Emoji", "Segoe UI Emoji", "Segoe UI Symbol", "Noto Color Emoji"`},
		{path: "fontSize.sm", want: "0.875rem"},
		{path: "colors.red.5000", wantErr: "'colors.red.5000' does not exist in your theme config. Did you mean 'colors.red.500'?"},
		{path: "colors.red", wantErr: "'colors.red' was found but does not resolve to a string. Did you mean something like 'colors.red.50'?"},
		{path: "spacingg", wantErr: "'spacingg' does not exist in your theme config. Did you mean 'spacing'?"},
		{path: "borderRadius.zzzzzz", wantErr: "'borderRadius' has the following valid keys:"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := th.Validate(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("colors.red.500 / 25%")
	require.NoError(t, err)
	assert.Equal(t, []string{"colors", "red", "500"}, p.Segments)
	assert.Equal(t, "25%", p.Alpha)

	p, err = ParsePath("spacing[2.5]")
	require.NoError(t, err)
	assert.Equal(t, []string{"spacing", "2.5"}, p.Segments)
	assert.Equal(t, "spacing[2.5]", p.String())

	_, err = ParsePath("spacing[2.5")
	assert.Error(t, err)
}

func TestFlattenAndSortKeys(t *testing.T) {
	s := S("red", S("DEFAULT", "#f00", "500", "#e00"), "black", "#000")
	flat := Flatten(s)
	assert.Equal(t, []string{"red", "red-500", "black"}, flat.Keys())

	keys := []string{"lg", "10", "DEFAULT", "2", "0.5", "sm"}
	SortKeys(keys)
	assert.Equal(t, []string{"0.5", "2", "10", "DEFAULT", "lg", "sm"}, keys)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"200":     "#eee",
		"100":     "#fff",
		"DEFAULT": "#ccc",
		"sans":    []any{"Inter", "sans-serif"},
		"z":       10,
	})
	require.NoError(t, err)
	s := v.(*Scale)
	assert.Equal(t, []string{"100", "200", "DEFAULT", "sans", "z"}, s.Keys())
	z, _ := s.Get("z")
	assert.Equal(t, Literal("10"), z)
	sans, _ := s.Get("sans")
	assert.Equal(t, "Inter, sans-serif", Join(sans.(List)))

	_, err = FromAny(map[string]any{"x": struct{}{}})
	assert.Error(t, err)
}

func TestScreens(t *testing.T) {
	screens := NormalizeScreens(S(
		"sm", "640px",
		"tall", S("raw", "(min-height: 800px)"),
		"range", S("min", "100px", "max", "200px"),
		"multi", List{S("min", "10px", "max", "20px"), S("min", "30px")},
	))
	require.Len(t, screens, 4)
	assert.Equal(t, "(min-width: 640px)", screens[0].MediaQuery())
	assert.Equal(t, "(min-height: 800px)", screens[1].MediaQuery())
	assert.Equal(t, "(min-width: 100px) and (max-width: 200px)", screens[2].MediaQuery())
	assert.Equal(t, "(min-width: 10px) and (max-width: 20px), (min-width: 30px)", screens[3].MediaQuery())

	neg := screens[0]
	neg.Not = true
	assert.Equal(t, "not all and (min-width: 640px)", neg.MediaQuery())

	assert.True(t, Simple(NormalizeScreens(S("sm", "640px", "md", "768px"))))
	assert.False(t, Simple(NormalizeScreens(S("sm", "640px", "md", "50em"))))
	assert.False(t, Simple(screens))

	assert.Equal(t, -1, CompareScreens("min", ScreenValue{Min: "640px"}, ScreenValue{Min: "768px"}))
	assert.Equal(t, 1, CompareScreens("max", ScreenValue{Max: "640px"}, ScreenValue{Max: "768px"}))
}
