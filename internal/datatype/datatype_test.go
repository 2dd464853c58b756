package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		typ   Type
		value string
		want  bool
	}{
		{Length, "10px", true},
		{Length, "0", true},
		{Length, "-1.5rem", true},
		{Length, "calc(100%-1rem)", true},
		{Length, "10", false},
		{Length, "10px_20px", true},
		{Length, "var(--x)", false},
		{Number, "1.5", true},
		{Number, "-.5", true},
		{Number, "1e3", true},
		{Number, "abc", false},
		{Number, "NaN", false},
		{Percentage, "50%", true},
		{Percentage, "50", false},
		{Color, "red", true},
		{Color, "#fff", true},
		{Color, "rgb(0_0_0)", true},
		{Color, "var(--x)", false},
		{Color, "var(--x)_red", true},
		{Color, "10px", false},
		{URL, "url(/a.png)", true},
		{Image, "linear-gradient(red,blue)", true},
		{Image, "url(a.png),url(b.png)", true},
		{Image, "red", false},
		{Position, "center_top", true},
		{Position, "10px_20%", true},
		{Position, "middle", false},
		{FamilyName, "Inter,sans-serif", true},
		{FamilyName, "'Open_Sans'", true},
		{FamilyName, "Open_Sans", false},
		{FamilyName, "1font", false},
		{GenericName, "monospace", true},
		{AbsoluteSize, "x-large", true},
		{RelativeSize, "smaller", true},
		{LineWidth, "thick", true},
		{Shadow, "0_0_2px_black", true},
		{Shadow, "inset_0_1px_red,0_2px_blue", true},
		{Shadow, "black", false},
		{Size, "cover", true},
		{Size, "auto_50%", true},
		{Size, "10px_20px_30px", false},
		{Any, "whatever", true},
		{Lookup, "whatever", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.typ, tt.value))
		})
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("color"))
	assert.True(t, Known("length"))
	assert.False(t, Known("colour"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, property, want string
	}{
		{"--my-var", "", "var(--my-var)"},
		{"--tl", "timeline-scope", "--tl"},
		{"1px_solid_red", "", "1px solid red"},
		{`a\_b`, "", "a_b"},
		{"calc(100%-1rem)", "", "calc(100% - 1rem)"},
		{"calc(var(--a)*-1)", "", "calc(var(--a) * -1)"},
		{"min(1px,-2px)", "", "min(1px,-2px)"},
		{"calc(100%-theme(spacing.4))", "", "calc(100% - theme(spacing.4))"},
		{"max(min-content,10px+2px)", "", "max(min-content,10px + 2px)"},
		{"url(/a_b.png)_center", "", "url(/a_b.png) center"},
		{"_leading", "", "leading"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, tt.property))
		})
	}
}

func TestNegate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0", "0", true},
		{"1rem", "-1rem", true},
		{"-4px", "4px", true},
		{"+2", "-2", true},
		{".5em", "-.5em", true},
		{"50%", "-50%", true},
		{"var(--x)", "calc(var(--x) * -1)", true},
		{"calc(1px + 2px)", "calc(calc(1px + 2px) * -1)", true},
		{"auto", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Negate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"md", "hover", "p-4"}, SplitTopLevel("md:hover:p-4", ":"))
	assert.Equal(t, []string{"[&:hover]", "p-[a:b]"}, SplitTopLevel("[&:hover]:p-[a:b]", ":"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitTopLevel("a__b__c", "__"))
	assert.Equal(t, []string{"content-['a:b']"}, SplitTopLevel("content-['a:b']", ":"))
	assert.Equal(t, []string{"rgb(1,2,3)", "red"}, SplitTopLevel("rgb(1,2,3),red", ","))
}

func TestBalancedAndValidPropertyValue(t *testing.T) {
	assert.True(t, Balanced("calc(1px + (2px))"))
	assert.False(t, Balanced("calc(1px"))
	assert.False(t, Balanced("a]"))
	assert.True(t, Balanced(`"(" ok`))

	assert.True(t, ValidPropertyValue("red"))
	assert.True(t, ValidPropertyValue("url('a:b')"))
	assert.False(t, ValidPropertyValue("a:b"))
	assert.False(t, ValidPropertyValue("red;"))
	assert.False(t, ValidPropertyValue("red;color:blue"))
	assert.True(t, ValidPropertyValue(`url("a;b")`))
	assert.False(t, ValidPropertyValue("calc(1px"))
	assert.False(t, ValidPropertyValue("1px)"))
}

func TestParseShadow(t *testing.T) {
	parts := ParseShadow("0 1px 3px 0 rgb(0 0 0 / 0.1), inset 0 2px red")
	assert.Len(t, parts, 2)
	assert.Equal(t, "0", parts[0].X)
	assert.Equal(t, "1px", parts[0].Y)
	assert.Equal(t, "3px", parts[0].Blur)
	assert.Equal(t, "0", parts[0].Spread)
	assert.Equal(t, "rgb(0 0 0 / 0.1)", parts[0].Color)
	assert.Equal(t, "inset", parts[1].Keyword)

	parts[0].Color = "var(--tw-shadow-color)"
	parts[1].Color = "var(--tw-shadow-color)"
	assert.Equal(t, "0 1px 3px 0 var(--tw-shadow-color), inset 0 2px var(--tw-shadow-color)", FormatShadow(parts))
}
