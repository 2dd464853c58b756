package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"p-4", "p-4"},
		{"md:hover:p-4", `md\:hover\:p-4`},
		{"2xl:p-4", `\32xl\:p-4`},
		{"2a", `\32 a`},
		{"w-1/2", `w-1\/2`},
		{"-m-4", "-m-4"},
		{"--x", `\--x`},
		{"-2", `\-2`},
		{"p-[calc(100%-1rem)]", `p-\[calc\(100\%-1rem\)\]`},
		{"!p-4", `\!p-4`},
		{"grid-cols-[1fr,2fr]", `grid-cols-\[1fr\2c 2fr\]`},
		{"bg-[#fff]", `bg-\[\#fff\]`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestUnescapeRoundTrip(t *testing.T) {
	names := []string{"2xl:p-4", "w-1/2", "grid-cols-[1fr,2fr]", "2a", "--x", "[&>*]:p-2", "content-['→']"}
	for _, name := range names {
		assert.Equal(t, name, Unescape(Escape(name)), name)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []string{
		".a",
		".a:hover",
		".a > .b ~ .c + .d .e",
		"*, ::before, ::after",
		".group:hover .x",
		".x:not(.y, .z)",
		`.md\:hover\:p-4:hover`,
		"input[type=\"checkbox\"]:checked",
		".x:nth-child(2n+1)::before",
		"&:where(.dark, .dark *)",
		"#app :is(.a)",
		`.\32xl\:p-4`,
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			list, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, in, list.String())
		})
	}
}

func TestParse_Normalizes(t *testing.T) {
	list, err := Parse(".a>.b,\n  .c   .d")
	require.NoError(t, err)
	assert.Equal(t, ".a > .b, .c .d", list.String())
	require.Len(t, list, 2)
	assert.Equal(t, Combinator, list[0].Nodes[1].Kind)
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{".", ".a[href", ".a:is(.b", "#"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestClasses(t *testing.T) {
	got, err := Classes(".a .b:not(.c):hover, .d:is(.e)", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "e"}, got)

	got, err = Classes(".b:not(.c)", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestPrefix(t *testing.T) {
	got, err := Prefix("tw-", ".-m-4 .group:hover", true)
	require.NoError(t, err)
	assert.Equal(t, ".-tw-m-4 .tw-group:hover", got)
}
