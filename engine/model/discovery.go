package model

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
)

// Root is one of the four discovery locations for model definitions.
type Root struct {
	Scope Scope
	Dir   string
}

// Roots returns the three on-disk discovery roots (Project, GitRoot, User)
// for a project rooted at projectDir, with repoDir as the enclosing git
// worktree (may equal projectDir) and userHomeDir as the user's home
// directory. Builtin definitions come from a BuiltinProvider, not a Root.
func Roots(projectDir, repoDir, userHomeDir string) []Root {
	return []Root{
		{Scope: Project, Dir: filepath.Join(projectDir, "models")},
		{Scope: GitRoot, Dir: filepath.Join(repoDir, ".swissarmyhammer", "models")},
		{Scope: User, Dir: filepath.Join(userHomeDir, ".swissarmyhammer", "models")},
	}
}

// BuiltinProvider supplies the compiled-in builtin model definitions. It is
// a function, not a fixed map, so embedding (go:embed) can be wired in by
// callers without this package depending on an embed.FS layout.
type BuiltinProvider func() ([]Info, error)

// DefaultBuiltins returns the single built-in `claude-code` definition
// documented in spec §6, used when no BuiltinProvider is supplied.
func DefaultBuiltins() ([]Info, error) {
	return []Info{
		{
			Name:        "claude-code",
			Scope:       Builtin,
			Description: "Default Claude Code executor",
			Raw: "" +
				"---\n" +
				"description: Default Claude Code executor\n" +
				"---\n" +
				"executor:\n" +
				"  type: claude-code\n" +
				"  config: {}\n" +
				"quiet: false\n",
		},
	}, nil
}

// discoverRoot walks dir (non-recursively, matching spec §4.1 "*.yaml
// files whose stem is the model name") and returns one Info per file.
// A missing directory yields an empty, non-error result.
func discoverRoot(ctx context.Context, root Root) ([]Info, error) {
	log := logger.FromContext(ctx)
	dir, exists, err := checkReadableDir(root.Dir)
	if err != nil {
		log.Warn("skipping unreadable model root", "dir", root.Dir, "error", err.Error())
		return nil, nil
	}
	if !exists {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("failed to read model root", "dir", dir, "error", err.Error())
		return nil, nil
	}
	var out []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := checkConfigFileSize(path); err != nil {
			log.Error("model file too large, skipping", "path", path, "error", err.Error())
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Error("failed to read model file, skipping", "path", path, "error", err.Error())
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		out = append(out, Info{
			Name:        name,
			Raw:         string(raw),
			Scope:       root.Scope,
			Description: ParseDescription(string(raw)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
