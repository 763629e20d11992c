package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	maxPathLen       = 4096
	maxAgentNameLen  = 256
	maxConfigFileLen = 10 * 1024 * 1024 // 10 MiB, spec §4.1 & §8
)

// ValidatePath enforces spec §4.1's path security constraints: bounded
// length, no null bytes.
func ValidatePath(p string) error {
	if len(p) == 0 {
		return &Error{Kind: InvalidPath, Detail: "empty path"}
	}
	if len(p) > maxPathLen {
		return &Error{Kind: InvalidPath, Detail: "path exceeds maximum length"}
	}
	if strings.ContainsRune(p, 0) {
		return &Error{Kind: InvalidPath, Detail: "path contains null byte"}
	}
	return nil
}

// ValidateAgentName enforces spec §4.1's agent-name input constraints:
// bounded length, no null/control characters, no path separators or
// traversal sequences.
func ValidateAgentName(name string) error {
	if name == "" {
		return &Error{Kind: InvalidPath, Detail: "empty agent name"}
	}
	if len(name) > maxAgentNameLen {
		return &Error{Kind: InvalidPath, Detail: "agent name exceeds maximum length"}
	}
	for _, r := range name {
		if r == 0 || r < 0x20 {
			return &Error{Kind: InvalidPath, Detail: "agent name contains control characters"}
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return &Error{Kind: InvalidPath, Detail: "agent name contains path separators"}
	}
	return nil
}

// checkReadableDir canonicalizes dir and verifies it is a directory the
// current user can read. Missing directories are not an error — callers
// treat an absent root as an empty contribution (spec §4.1 Discovery).
func checkReadableDir(dir string) (string, bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false, &Error{Kind: InvalidPath, Detail: err.Error()}
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, false, nil
		}
		return "", false, &Error{Kind: IoError, Detail: err.Error()}
	}
	if !info.IsDir() {
		return "", false, &Error{Kind: InvalidPath, Detail: fmt.Sprintf("%s is not a directory", abs)}
	}
	if info.Mode().Perm()&0o400 == 0 {
		return "", false, &Error{Kind: InvalidPath, Detail: fmt.Sprintf("%s is not owner-readable", abs)}
	}
	return abs, true, nil
}

// checkConfigFileSize enforces the 10 MiB config-file ceiling (spec §4.1,
// §8 boundary behavior).
func checkConfigFileSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &Error{Kind: IoError, Detail: err.Error()}
	}
	if info.Size() > maxConfigFileLen {
		return &Error{Kind: ConfigError, Detail: fmt.Sprintf("%s exceeds 10MiB limit", path)}
	}
	return nil
}
