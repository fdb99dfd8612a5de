// Package source finds the C# files a generation pass reads.
package source

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/logger"
)

// Matcher selects paths by include and exclude glob patterns. Patterns use
// doublestar syntax ("**/Models/*.cs") against slash-separated paths relative
// to the source root.
type Matcher struct {
	Include []string
	Exclude []string
}

// Match reports whether rel is included and not excluded. An empty include
// list includes every .cs file. Malformed patterns match nothing.
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)

	included := len(m.Include) == 0 && strings.EqualFold(filepath.Ext(rel), ".cs")
	for _, p := range m.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, p := range m.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	return true
}

// skipDirs are build and tooling directories never scanned
var skipDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	"node_modules": true,
}

// Discover walks root and returns the slash-separated relative paths of
// files accepted by any of the matchers, sorted so runs are deterministic.
func Discover(root string, matchers ...Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, m := range matchers {
			if m.Match(rel) {
				files = append(files, rel)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk source root %s", root)
	}

	sort.Strings(files)
	logger.Debugw("Discovered source files", "root", root, logger.FieldCount, len(files))
	return files, nil
}
