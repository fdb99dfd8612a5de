package typegen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/logger"
)

// Write writes every artifact, creating parent directories as needed
func Write(artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", a.Path)
		}
		if err := os.WriteFile(a.Path, a.Content, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", a.Path)
		}
		logger.Debugw("Wrote artifact", logger.FieldFile, a.Path, logger.FieldKind, a.Kind)
	}
	return nil
}

// Difference is one artifact whose file on disk does not match
type Difference struct {
	Path    string
	Missing bool
	// Diff is a unified diff from the file on disk to the generated content
	Diff string
}

// Compare reports the artifacts whose files are missing or differ from the
// generated content. An empty result means everything is up to date.
func Compare(artifacts []Artifact) ([]Difference, error) {
	var diffs []Difference
	for _, a := range artifacts {
		current, err := os.ReadFile(a.Path)
		if os.IsNotExist(err) {
			diffs = append(diffs, Difference{Path: a.Path, Missing: true})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", a.Path)
		}
		if bytes.Equal(current, a.Content) {
			continue
		}

		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(current)),
			B:        difflib.SplitLines(string(a.Content)),
			FromFile: a.Path,
			ToFile:   a.Path + " (generated)",
			Context:  3,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to diff %s", a.Path)
		}
		diffs = append(diffs, Difference{Path: a.Path, Diff: text})
	}
	return diffs, nil
}
