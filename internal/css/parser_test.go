package css

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Structure(t *testing.T) {
	src := `@tailwind base;
/* note */
.btn:hover, .x { color: red; background: url(a.png) !important }
@media (min-width: 640px) {
  .a { margin: 0 }
}
.b { @apply p-4 hover:m-2; }
`
	root, err := Parse(src, "app.css")
	require.NoError(t, err)
	require.Len(t, root.Nodes, 5)

	tw := root.Nodes[0]
	assert.Equal(t, AtRuleNode, tw.Type)
	assert.Equal(t, "tailwind", tw.Name)
	assert.Equal(t, "base", tw.Params)
	assert.False(t, tw.Block)

	assert.Equal(t, CommentNode, root.Nodes[1].Type)
	assert.Equal(t, " note ", root.Nodes[1].Text)

	rule := root.Nodes[2]
	assert.Equal(t, ".btn:hover, .x", rule.Selector)
	require.Len(t, rule.Nodes, 2)
	assert.Equal(t, "color", rule.Nodes[0].Prop)
	assert.Equal(t, "red", rule.Nodes[0].Value)
	assert.Equal(t, "url(a.png)", rule.Nodes[1].Value)
	assert.True(t, rule.Nodes[1].Important)
	assert.Equal(t, 3, rule.Source.Start.Line)
	assert.Equal(t, "app.css", rule.Source.File)

	media := root.Nodes[3]
	assert.True(t, media.Block)
	assert.Equal(t, "(min-width: 640px)", media.Params)
	require.Len(t, media.Nodes, 1)
	assert.Same(t, media, media.Nodes[0].Parent())

	apply := root.Nodes[4].Nodes[0]
	assert.Equal(t, "apply", apply.Name)
	assert.Equal(t, "p-4 hover:m-2", apply.Params)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason string
		line   int
	}{
		{"unclosed block", ".a { color: red;", "Unclosed block", 1},
		{"unexpected brace", ".a {}\n}", "Unexpected }", 2},
		{"unknown word at top", "\ncolor: red;", "Unknown word", 2},
		{"missing colon", ".a { color red }", "Unknown word", 1},
		{"unclosed bracket", ".a { width: calc(1px + 2px }", "Unclosed bracket", 1},
		{"unclosed string", ".a { content: \"abc\n }", "Unclosed string", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "x.css")
			require.Error(t, err)
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.reason, se.Reason)
			assert.Equal(t, tt.line, se.Line)
			assert.Contains(t, se.Error(), "x.css:")
		})
	}
}

func TestSyntaxError_Snippet(t *testing.T) {
	_, err := Parse(".a {}\n\t}", "x.css")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, 2, se.Column)
	assert.Equal(t, "2 | \t}\n  | \t^", se.Snippet())
}

func TestParseDecls(t *testing.T) {
	decls, err := ParseDecls("color: red; --tw-x: 1 ;margin:0 auto!important")
	require.NoError(t, err)
	require.Len(t, decls, 3)
	assert.Nil(t, decls[0].Parent())
	assert.Equal(t, "--tw-x", decls[1].Prop)
	assert.Equal(t, "1", decls[1].Value)
	assert.Equal(t, "0 auto", decls[2].Value)
	assert.True(t, decls[2].Important)

	_, err = ParseDecls("color red")
	assert.Error(t, err)
}
