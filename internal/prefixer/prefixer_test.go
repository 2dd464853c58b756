package prefixer

import (
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/windgen/internal/css"
)

func process(t *testing.T, targets []string, in string) (string, Stats) {
	t.Helper()
	p, err := New(targets)
	require.NoError(t, err)
	root, err := css.Parse(in, "")
	require.NoError(t, err)
	stats, err := p.Process(root)
	require.NoError(t, err)
	return root.Minified(), stats
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		in      string
		want    []string
		absent  []string
		decls   int
		rules   int
	}{
		{
			name:    "old safari",
			targets: []string{"safari12"},
			in:      ".a { mask-size: cover; clip-path: circle(50%); position: sticky; user-select: none; }",
			want: []string{
				"-webkit-mask-size:cover",
				"-webkit-clip-path:circle(50%)",
				"position:-webkit-sticky",
				"-webkit-user-select:none",
				"user-select:none",
			},
			decls: 4,
		},
		{
			name:    "current chrome needs nothing",
			targets: []string{"chrome130"},
			in:      ".a { position: sticky; user-select: none; }",
			want:    []string{"position:sticky", "user-select:none"},
			absent:  []string{"-webkit-"},
		},
		{
			name:   "default targets",
			in:     ".a { user-select: none; }",
			want:   []string{"-webkit-user-select:none", "user-select:none"},
			absent: []string{"-moz-user-select"},
			decls:  1,
		},
		{
			name:    "important is kept",
			targets: []string{"safari12"},
			in:      ".a { user-select: none !important; }",
			want:    []string{"-webkit-user-select:none!important", "user-select:none!important"},
			decls:   1,
		},
		{
			name:    "nested in media",
			targets: []string{"safari12"},
			in:      "@media (min-width: 640px) { .a { user-select: none; } }",
			want:    []string{"@media (min-width: 640px){", "-webkit-user-select:none"},
			decls:   1,
		},
		{
			name:  "placeholder rules are duplicated",
			in:    "input::placeholder { opacity: 1; }",
			want:  []string{"input::-moz-placeholder{opacity:1}input::placeholder{opacity:1}"},
			rules: 1,
		},
		{
			name:  "file selector button",
			in:    ".b::file-selector-button { padding: 1rem; }",
			want:  []string{".b::-webkit-file-upload-button{padding:1rem}.b::file-selector-button{padding:1rem}"},
			rules: 1,
		},
		{
			name: "prefixed rule already present",
			in:   "::-webkit-file-upload-button { font: inherit; } ::file-selector-button { font: inherit; }",
			want: []string{"::-webkit-file-upload-button{font:inherit}::file-selector-button{font:inherit}"},
		},
		{
			name: "unrelated css",
			in:   ".a { color: red; }",
			want: []string{".a{color:red}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stats := process(t, tt.targets, tt.in)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
			assert.Equal(t, tt.decls, stats.Declarations)
			assert.Equal(t, tt.rules, stats.Rules)
		})
	}
}

func TestProcess_Idempotent(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	root, err := css.Parse(".a::placeholder { color: red; }", "")
	require.NoError(t, err)

	_, err = p.Process(root)
	require.NoError(t, err)
	stats, err := p.Process(root)
	require.NoError(t, err)
	assert.Zero(t, stats.Rules)
	assert.Equal(t, 1, strings.Count(root.Minified(), "::-moz-placeholder"))
}

func TestParseTargets(t *testing.T) {
	engs, err := ParseTargets([]string{"chrome120", " Safari16.4 ", "", "ios15"})
	require.NoError(t, err)
	assert.Equal(t, []api.Engine{
		{Name: api.EngineChrome, Version: "120"},
		{Name: api.EngineSafari, Version: "16.4"},
		{Name: api.EngineIOS, Version: "15"},
	}, engs)

	_, err = ParseTargets([]string{"netscape4"})
	assert.ErrorContains(t, err, `unknown browser "netscape"`)
	_, err = ParseTargets([]string{"chrome"})
	assert.ErrorContains(t, err, "invalid target")

	_, err = New([]string{" "})
	assert.ErrorContains(t, err, "no targets")
}
