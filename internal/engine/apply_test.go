package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
)

func buildErr(t *testing.T, source string, candidates ...string) error {
	t.Helper()
	ctx, root := newContext(t, nil, source)
	_, err := ctx.Build(root, candidates)
	return err
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
		absent []string
	}{
		{
			name:   "utilities merge into the rule",
			source: ".btn { @apply px-4 font-bold; }",
			want:   []string{".btn{padding-left:1rem;padding-right:1rem;font-weight:700}"},
		},
		{
			name:   "variants become sibling rules",
			source: ".btn { color: red; @apply hover:underline; }",
			want:   []string{".btn{color:red}", ".btn:hover{text-decoration-line:underline}"},
		},
		{
			name:   "media variants wrap the rule",
			source: ".btn { @apply md:p-4; }",
			want:   []string{"@media (min-width: 768px){.btn{padding:1rem}}"},
		},
		{
			name:   "important flag",
			source: ".btn { @apply p-4 !important; }",
			want:   []string{".btn{padding:1rem!important}"},
		},
		{
			name:   "important candidate",
			source: ".btn { @apply !p-4; }",
			want:   []string{".btn{padding:1rem!important}"},
		},
		{
			name:   "source order is kept around the apply",
			source: ".btn { color: red; @apply p-4; margin: 0; }",
			want:   []string{".btn{color:red;padding:1rem;margin:0}"},
		},
		{
			name:   "selector lists",
			source: ".a, .b { @apply p-4; }",
			want:   []string{".a, .b{padding:1rem}"},
		},
		{
			name:   "plain css classes",
			source: ".card { padding: 2rem; }\n.panel { @apply card; }",
			want:   []string{".card{padding:2rem}", ".panel{padding:2rem}"},
		},
		{
			name:   "layer components",
			source: "@tailwind components;\n@layer components { .card { border-radius: 1rem; } }\n.x { @apply card; }",
			want:   []string{".x{border-radius:1rem}"},
			absent: []string{".card"},
		},
		{
			name:   "chained apply",
			source: "@tailwind components;\n@layer components { .btn { @apply p-4; } }\n.x { @apply btn; }",
			want:   []string{".x{padding:1rem}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := build(t, nil, tt.source)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
			assert.NotContains(t, out, "@apply")
		})
	}
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
		circular bool
	}{
		{"unknown class", ".x { @apply nope; }", "The `nope` class does not exist.", false},
		{"outside a rule", "@apply p-4;", "@apply must be used inside a rule.", false},
		{"inside @screen", "@screen md { @apply p-4; }", "We suggest you write this as @apply md:p-4 instead.", false},
		{"inside @media", "@media print { @apply p-4; }", "You can fix this by un-nesting @media.", false},
		{"group", ".x { @apply group; }", "@apply should not be used with the 'group' utility", false},
		{"self", ".a { @apply a; }", "creates a circular dependency", true},
		{
			"through layers",
			"@tailwind components;\n@layer components { .foo { @apply bar; } .bar { @apply foo; } }",
			"creates a circular dependency",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := buildErr(t, tt.source, "foo")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, tt.circular, errors.Is(err, ErrCircularApply))

			var de *DirectiveError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "@apply", de.Directive)
			assert.Equal(t, "input.css", de.File)
			assert.Positive(t, de.Line)
		})
	}
}

func TestSplitApplyParams(t *testing.T) {
	cands, important := splitApplyParams("p-4 hover:underline !important")
	assert.Equal(t, []string{"p-4", "hover:underline"}, cands)
	assert.True(t, important)

	cands, important = splitApplyParams("p-4")
	assert.Equal(t, []string{"p-4"}, cands)
	assert.False(t, important)
}

func TestApply_Important(t *testing.T) {
	cfg := testConfig()
	cfg.Important = config.Important{Enabled: true, Selector: "#app"}
	ctx, root := newContext(t, cfg, "@tailwind utilities;\n@layer utilities { .btn { @apply p-4; } }\n")
	_, err := ctx.Build(root, []string{"btn"})
	require.NoError(t, err)
	assert.Equal(t, "#app :is(.btn){padding:1rem}", root.Minified())
}

func TestUnwrapIs(t *testing.T) {
	assert.Equal(t, ".a", unwrapIs(":is(.a)"))
	assert.Equal(t, ".a:hover", unwrapIs(".a:hover"))
	assert.Equal(t, ":is(.a) :is(.b)", unwrapIs(":is(.a) :is(.b)"))
}

func TestSpliceApplied_MergesAdjacentRules(t *testing.T) {
	root, err := css.Parse(".x { color: red; }", "")
	require.NoError(t, err)
	parent := root.Nodes[0]
	marker := css.NewAtRule("apply", "p-4")
	parent.Append(marker)

	ctx, _ := newContext(t, nil, utilitiesOnly)
	ctx.spliceApplied(parent, map[*css.Node][]*css.Node{
		marker: {css.NewRule(".x", css.NewDecl("padding", "1rem")), css.NewRule(".x:hover", css.NewDecl("color", "blue"))},
	})
	assert.Equal(t, ".x{color:red;padding:1rem}.x:hover{color:blue}", root.Minified())
}
