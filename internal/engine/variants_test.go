package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/theme"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		candidate string
		want      string
	}{
		{"hover:underline", `.hover\:underline:hover{text-decoration-line:underline}`},
		{"md:hover:underline", `@media (min-width: 768px){.md\:hover\:underline:hover{text-decoration-line:underline}}`},
		{"first:p-4", `.first\:p-4:first-child{padding:1rem}`},
		{"odd:p-4", `.odd\:p-4:nth-child(odd){padding:1rem}`},
		{"open:p-4", `.open\:p-4[open]{padding:1rem}`},
		{"*:p-4", `.\*\:p-4 > *{padding:1rem}`},
		{"before:block", `.before\:block::before{content:var(--tw-content);display:block}`},
		{"placeholder:italic", `.placeholder\:italic::placeholder{font-style:italic}`},
		{"visited:text-red-500", `.visited\:text-red-500:visited{color:rgb(239 68 68)}`},
		{"group-hover:underline", `.group:hover .group-hover\:underline{text-decoration-line:underline}`},
		{"group-hover/item:underline", `.group\/item:hover .group-hover\/item\:underline{`},
		{"group-[.is-open]:block", `.group.is-open .group-\[\.is-open\]\:block{display:block}`},
		{"peer-checked:underline", `.peer:checked ~ .peer-checked\:underline{text-decoration-line:underline}`},
		{"has-[img]:p-4", `.has-\[img\]\:p-4:has(img){padding:1rem}`},
		{"aria-checked:underline", `.aria-checked\:underline[aria-checked="true"]{`},
		{"data-[state=open]:underline", `.data-\[state\=open\]\:underline[data-state="open"]{`},
		{"supports-[display:grid]:grid", `@supports (display:grid){.supports-\[display\:grid\]\:grid{display:grid}}`},
		{"motion-reduce:p-4", `@media (prefers-reduced-motion: reduce){.motion-reduce\:p-4{padding:1rem}}`},
		{"max-md:p-4", `@media not all and (min-width: 768px){.max-md\:p-4{padding:1rem}}`},
		{"min-[900px]:p-4", `@media (min-width: 900px){.min-\[900px\]\:p-4{padding:1rem}}`},
		{"max-[600px]:p-4", `@media (max-width: 600px){.max-\[600px\]\:p-4{padding:1rem}}`},
		{"dark:underline", `@media (prefers-color-scheme: dark){.dark\:underline{text-decoration-line:underline}}`},
		{"print:hidden", `@media print{.print\:hidden{display:none}}`},
		{"ltr:underline", `.ltr\:underline:where([dir="ltr"], [dir="ltr"] *){`},
		{"[&:nth-child(3)]:underline", `:nth-child(3){text-decoration-line:underline}`},
		{"[@supports(display:grid)]:grid", `@supports (display:grid){`},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			out, _ := build(t, nil, utilitiesOnly, tt.candidate)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestVariants_Invalid(t *testing.T) {
	for _, cand := range []string{"[&:hover,&:focus]:underline", "@-[10px]:p-4", "nope-[x]:p-4"} {
		t.Run(cand, func(t *testing.T) {
			out, _ := build(t, nil, utilitiesOnly, cand)
			assert.Empty(t, out)
		})
	}
}

func TestVariants_Order(t *testing.T) {
	out, _ := build(t, nil, utilitiesOnly,
		"print:p-4", "dark:p-4", "xl:p-4", "sm:p-4", "focus:p-4", "hover:p-4", "first:p-4", "max-lg:p-4", "max-sm:p-4")
	assertOrder(t, out,
		`.first\:p-4`, `.hover\:p-4`, `.focus\:p-4`,
		`.max-lg\:p-4`, `.max-sm\:p-4`,
		`.sm\:p-4`, `.xl\:p-4`,
		`.dark\:p-4`, `.print\:p-4`)
}

func TestVariants_DarkMode(t *testing.T) {
	tests := []struct {
		name string
		mode config.DarkMode
		want string
	}{
		{"class", config.DarkMode{Strategy: config.DarkClass}, `:is(.dark .dark\:underline){`},
		{"class with selector", config.DarkMode{Strategy: config.DarkClass, Selector: ".night"}, `:is(.night .dark\:underline){`},
		{"selector", config.DarkMode{Strategy: config.DarkSelector}, `.dark\:underline:where(.dark, .dark *){`},
		{
			"variant",
			config.DarkMode{Strategy: config.DarkVariant, Formats: []string{"&:is(.dark *)"}},
			`.dark\:underline:is(.dark *){`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.DarkMode = tt.mode
			out, _ := build(t, cfg, utilitiesOnly, "dark:underline")
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "prefers-color-scheme")
		})
	}
}

func TestVariants_DarkClassOrder(t *testing.T) {
	cfg := testConfig()
	cfg.DarkMode = config.DarkMode{Strategy: config.DarkClass}
	out, _ := build(t, cfg, utilitiesOnly, "md:p-4", "dark:p-4")
	assertOrder(t, out, `.dark\:p-4`, `.md\:p-4`)

	out, _ = build(t, nil, utilitiesOnly, "md:p-4", "dark:p-4")
	assertOrder(t, out, `.md\:p-4`, `.dark\:p-4`)
}

func TestVariants_HoverOnlyWhenSupported(t *testing.T) {
	cfg := testConfig()
	cfg.Future.HoverOnlyWhenSupported = true
	out, _ := build(t, cfg, utilitiesOnly, "hover:underline", "group-hover:underline")
	assert.Contains(t, out, `@media (hover: hover) and (pointer: fine){.hover\:underline:hover{`)
	assert.Contains(t, out, `.group:hover .group-hover\:underline{`)
}

func TestVariants_Prefix(t *testing.T) {
	cfg := testConfig()
	cfg.Prefix = "tw-"
	out, _ := build(t, cfg, utilitiesOnly, "group-hover:tw-underline", "peer-focus:tw-underline", "group-aria-checked:tw-underline")
	assert.Contains(t, out, `.tw-group:hover .group-hover\:tw-underline{`)
	assert.Contains(t, out, `.tw-peer:focus ~ .peer-focus\:tw-underline{`)
	assert.Contains(t, out, `.tw-group[aria-checked="true"] .group-aria-checked\:tw-underline{`)
	assert.NotContains(t, out, "tw-tw-")
}

func TestVariants_CustomScreens(t *testing.T) {
	cfg := testConfig()
	cfg.Theme.Set("screens", theme.S("tablet", "640px", "desktop", "1280px"))
	out, res := build(t, cfg, utilitiesOnly, "desktop:p-4", "tablet:p-4", "md:p-4", "max-desktop:p-2")
	assertOrder(t, out,
		`@media not all and (min-width: 1280px){.max-desktop\:p-2{padding:0.5rem}}`,
		`@media (min-width: 640px){.tablet\:p-4{`,
		`@media (min-width: 1280px){.desktop\:p-4{`)
	assert.NotContains(t, out, "md")
	assert.Empty(t, res.Warnings)
}

func TestVariants_MixedScreenUnits(t *testing.T) {
	cfg := testConfig()
	cfg.Theme.Set("screens", theme.S("sm", "640px", "lg", "80em"))
	out, res := build(t, cfg, utilitiesOnly, "min-[700px]:p-4", "sm:p-4")
	assert.Contains(t, out, `.sm\:p-4`)
	assert.NotContains(t, out, "700px")
	assert.Contains(t, res.Warnings, "The `min-*` and `max-*` variants are not supported with a `screens` configuration containing mixed units.")
}

func TestReplaceAmpersand(t *testing.T) {
	tests := []struct {
		result, a, b string
		want         string
	}{
		{"&:hover", ":merge(.group)", " &", ":merge(.group):hover &"},
		{"&.is-open", ":merge(.peer)", " ~ &", ":merge(.peer).is-open ~ &"},
		{"&[data-x='a b']", ":merge(.group)", " &", ":merge(.group)[data-x='a b'] &"},
		{":hover", ":merge(.group)", " &", ":hover"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, replaceAmpersand(tt.result, tt.a, tt.b), tt.result)
	}
}

func TestQuoteAttribute(t *testing.T) {
	assert.Equal(t, "checked", quoteAttribute("checked"))
	assert.Equal(t, `state="open"`, quoteAttribute("state=open"))
	assert.Equal(t, `state="open"`, quoteAttribute(`state="open"`))
	assert.Equal(t, `state="Open" i`, quoteAttribute("state=Open i"))
}
