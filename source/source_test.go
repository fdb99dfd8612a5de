package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	m := Matcher{
		Include: []string{"**/Models/**/*.cs", "Shared/*.cs"},
		Exclude: []string{"**/*.g.cs", "**/Internal/**"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"Api/Models/User.cs", true},
		{"Api/Models/Admin/Role.cs", true},
		{"Shared/Money.cs", true},
		{"Shared/Deep/Money.cs", false},
		{"Api/Models/User.g.cs", false},
		{"Api/Models/Internal/Secret.cs", false},
		{"Api/Controllers/UsersController.cs", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMatcher_EmptyIncludeTakesAllSources(t *testing.T) {
	m := Matcher{}
	assert.True(t, m.Match("a/b/C.cs"))
	assert.False(t, m.Match("a/b/c.ts"))
}

func TestMatcher_MalformedPatternMatchesNothing(t *testing.T) {
	assert.False(t, Matcher{Include: []string{"[abc"}}.Match("a.cs"))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{
		"Api/Models/User.cs",
		"Api/Models/Role.cs",
		"Api/Controllers/UsersController.cs",
		"Api/bin/Debug/Generated.cs",
		"Api/obj/Stale.cs",
		".git/HEAD.cs",
		"README.md",
	} {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0750))
		require.NoError(t, os.WriteFile(p, []byte("// x"), 0644))
	}

	files, err := Discover(root,
		Matcher{Include: []string{"**/Models/*.cs"}},
		Matcher{Include: []string{"**/*Controller.cs"}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Api/Controllers/UsersController.cs",
		"Api/Models/Role.cs",
		"Api/Models/User.cs",
	}, files)
}
