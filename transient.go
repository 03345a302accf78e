/*
 * Transient output.
 *
 * Generated files are written to a temporary file next to the final output
 * and atomically renamed on commit, so an interrupted run never leaves a
 * truncated CMakeLists.txt behind.
 */
package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/myesui/uuid.v1"
)

// TransientOutput is a temporary file to be renamed to `Output`.
type TransientOutput struct {
	Output     string
	TempOutput string
	file       *os.File
	done       bool
}

// NewTransientOutput creates the temporary file for `path`.
func NewTransientOutput(path string) (*TransientOutput, error) {
	output := filepath.Clean(path)
	temp := filepath.Join(filepath.Dir(output), "y2c-"+uuid.NewV4().String()+".tmp")
	f, err := os.OpenFile(temp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create temporal output \"%s\"", temp)
	}
	return &TransientOutput{Output: output, TempOutput: temp, file: f}, nil
}

// Write implements io.Writer.
func (t *TransientOutput) Write(b []byte) (int, error) {
	return t.file.Write(b)
}

// Commit renames the temporary file to the final output.
func (t *TransientOutput) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.file.Close(); err != nil {
		os.Remove(t.TempOutput)
		return errors.Wrapf(err, "Closing \"%s\" failed.", t.TempOutput)
	}
	Verbose("Renaming %s to %s", t.TempOutput, t.Output)
	if err := os.Rename(t.TempOutput, t.Output); err != nil {
		os.Remove(t.TempOutput)
		return errors.Wrapf(err, "Renaming \"%s\" to \"%s\" failed.", t.TempOutput, t.Output)
	}
	return nil
}

// Abort discards the transient output. No-op after `Commit`.
func (t *TransientOutput) Abort() error {
	if t.done {
		return nil
	}
	t.done = true
	t.file.Close()
	return os.Remove(t.TempOutput)
}

// Done returns true if operation is done (Committed or Aborted).
func (t *TransientOutput) Done() bool {
	return t.done
}

// WriteFileAtomic replaces `path` with `data`.
func WriteFileAtomic(path string, data []byte) error {
	out, err := NewTransientOutput(path)
	if err != nil {
		return err
	}
	defer out.Abort()
	if _, err := out.Write(data); err != nil {
		return errors.Wrapf(err, "Failed to write \"%s\"", out.TempOutput)
	}
	return out.Commit()
}
