package generator

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Writer places generated modules on disk.
type Writer struct {
	// Diff makes Write print a unified diff against the existing file to
	// Out instead of writing.
	Diff bool
	Out  io.Writer
}

// Write stores data at path, replacing any existing file atomically. It
// reports whether the content differs from what was there.
func (w *Writer) Write(path string, data []byte) (bool, error) {
	old, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.WithStack(err)
	}
	changed := err != nil || !bytes.Equal(old, data)

	if w.Diff {
		if !changed || w.Out == nil {
			return changed, nil
		}
		diff, err := textDiff(path, old, data)
		if err != nil {
			return changed, err
		}
		_, err = io.WriteString(w.Out, diff)
		return changed, errors.WithStack(err)
	}
	return changed, writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replacing %s", path)
}

func textDiff(path string, old, data []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(data)),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
	return diff, errors.Wrapf(err, "diffing %s", path)
}
