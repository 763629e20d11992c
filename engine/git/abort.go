package git

import (
	"os"
	"path/filepath"
)

const abortFileRelPath = ".swissarmyhammer/.abort"

// AbortFilePath returns the absolute path of the abort marker under repoRoot.
func AbortFilePath(repoRoot string) string {
	return filepath.Join(repoRoot, abortFileRelPath)
}

// WriteAbortFile writes message to the abort marker, creating its parent
// directory if necessary. The abort file is an output channel only — the
// core never reads it back (spec §6 Abort-file semantics).
func WriteAbortFile(repoRoot, message string) error {
	path := AbortFilePath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, []byte(message), 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// AbortFileExists reports whether an abort marker is currently present.
func AbortFileExists(repoRoot string) bool {
	_, err := os.Stat(AbortFilePath(repoRoot))
	return err == nil
}
