package generate

import (
	"go/build/constraint"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutTag(t *testing.T) {
	tests := []struct {
		expr  string
		ok    bool
		extra string
	}{
		{"//go:build unstablegen", true, ""},
		{"//go:build linux && unstablegen", true, "linux"},
		{"//go:build unstablegen && (linux || darwin)", true, "linux || darwin"},
		{"//go:build a && unstablegen && b", true, "a && b"},
		{"//go:build linux || unstablegen", false, ""},
		{"//go:build !unstablegen", false, ""},
		{"//go:build linux", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr, err := constraint.Parse(tt.expr)
			require.NoError(t, err)
			extra, ok := withoutTag(expr, "unstablegen")
			assert.Equal(t, tt.ok, ok)
			if tt.extra == "" {
				assert.Nil(t, extra)
				return
			}
			require.NotNil(t, extra)
			assert.Equal(t, tt.extra, extra.String())
		})
	}
}

func TestFileNameTags(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"poll.go", nil},
		{"linux.go", nil},
		{"poll_windows.go", []string{"windows"}},
		{"poll_amd64.go", []string{"amd64"}},
		{"poll_linux_arm64.go", []string{"linux", "arm64"}},
		{"poll_linux_test.go", []string{"linux"}},
		{"poll_darwin_amd64_test.go", []string{"darwin", "amd64"}},
		{"poll_unix.go", nil},
		{"windows_helpers.go", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileNameTags(tt.name))
		})
	}
}

func TestWithFileNameTags(t *testing.T) {
	tests := []struct {
		name  string
		build string
		want  string
	}{
		{"poll_windows.go", "", "windows"},
		{"poll_linux_amd64.go", "", "linux && amd64"},
		{"poll_windows.go", "//go:build cgo", "windows && cgo"},
		{"poll_linux.go", "//go:build linux", "linux"},
		{"poll_linux.go", "//go:build linux || darwin", "linux && (linux || darwin)"},
		{"poll.go", "//go:build cgo", "cgo"},
	}
	for _, tt := range tests {
		t.Run(tt.name+" "+tt.build, func(t *testing.T) {
			var extra constraint.Expr
			if tt.build != "" {
				var err error
				extra, err = constraint.Parse(tt.build)
				require.NoError(t, err)
			}
			got := withFileNameTags(tt.name, extra)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestOutputPaths(t *testing.T) {
	p := newOutputPaths("pkg/risky.go")
	assert.Equal(t, "pkg/risky_gen.go", p.base())
	assert.Equal(t, "pkg/risky_unstable_x_gen.go", p.enabled("unstable_x"))
	assert.Equal(t, "pkg/risky_unstable_x_off_gen.go", p.disabled("unstable_x"))

	p = newOutputPaths("pkg/risky_test.go")
	assert.Equal(t, "pkg/risky_gen_test.go", p.base())
	assert.Equal(t, "pkg/risky_unstable_off_gen_test.go", p.disabled("unstable"))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.go":           "//go:build unstablegen\n\npackage p\n",
		"b.go":           "//go:build linux && unstablegen\n\npackage p\n",
		"plain.go":       "package p\n",
		"other_gen.go":   "// Code generated by stringer. DO NOT EDIT.\n\npackage p\n",
		"a_gen.go":       "// Code generated by unstablegen. DO NOT EDIT.\n\npackage p\n",
		"a_x_off_gen.go": "//go:build !x\n\n// Code generated by unstablegen. DO NOT EDIT.\n\npackage p\n",
		"c_windows.go":   "//go:build unstablegen\n\npackage p\n",
		"notes.txt":      "not go",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	pd, err := scanDir(dir, "unstablegen")
	require.NoError(t, err)

	require.Len(t, pd.sources, 3)
	assert.Equal(t, filepath.Join(dir, "a.go"), pd.sources[0].path)
	assert.Nil(t, pd.sources[0].extra)
	assert.Equal(t, "linux", pd.sources[1].extra.String())
	assert.Equal(t, filepath.Join(dir, "c_windows.go"), pd.sources[2].path)
	assert.Equal(t, "windows", pd.sources[2].extra.String())

	assert.ElementsMatch(t, []string{filepath.Join(dir, "a_gen.go"), filepath.Join(dir, "a_x_off_gen.go")}, pd.generated)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "plain.go"), filepath.Join(dir, "other_gen.go")}, pd.others)
}
