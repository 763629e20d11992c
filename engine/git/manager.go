package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
)

const issueBranchPrefix = "issue/"

// Manager drives the issue branch lifecycle against a single local
// repository: creation, checkout, reflog-based merge-target discovery, and
// merge, all guarded by the structural invariants of spec §4.3.
type Manager struct {
	workDir string
	gitDir  string
	repo    *gogit.Repository
}

// Open verifies workDir is a git repository and returns a Manager bound to
// it.
func Open(workDir string) (*Manager, error) {
	repo, err := gogit.PlainOpen(workDir)
	if err != nil {
		return nil, &OperationError{Op: "open repository", Detail: err.Error()}
	}
	return &Manager{
		workDir: workDir,
		gitDir:  filepath.Join(workDir, ".git"),
		repo:    repo,
	}, nil
}

// WorkDir returns the repository's working-tree root.
func (m *Manager) WorkDir() string { return m.workDir }

// IsIssueBranch reports whether name carries the reserved issue/ prefix.
func IsIssueBranch(name string) bool { return strings.HasPrefix(name, issueBranchPrefix) }

// IssueBranchName returns the canonical branch name for an issue.
func IssueBranchName(issueName string) string { return issueBranchPrefix + issueName }

// CurrentBranch returns the short name of the branch HEAD points to.
func (m *Manager) CurrentBranch() (string, error) {
	head, err := m.repo.Head()
	if err != nil {
		return "", &LibraryError{Op: "get HEAD reference", Underlying: err}
	}
	if !head.Name().IsBranch() {
		return "", &LibraryError{Op: "determine branch name from HEAD", Underlying: fmt.Errorf("HEAD does not point to a branch")}
	}
	return head.Name().Short(), nil
}

// BranchExists reports whether a local branch with the given name exists.
func (m *Manager) BranchExists(branch string) (bool, error) {
	if strings.TrimSpace(branch) == "" {
		return false, nil
	}
	_, err := m.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, &LibraryError{Op: "check branch existence", Underlying: err}
}

// ValidateBranchName checks branch against git's reference-name rules
// (there being no single exported validator in the underlying library).
func ValidateBranchName(branch string) error {
	invalid := branch == "" ||
		strings.HasPrefix(branch, "-") ||
		strings.HasPrefix(branch, "/") ||
		strings.HasSuffix(branch, "/") ||
		strings.HasSuffix(branch, ".") ||
		strings.HasSuffix(branch, ".lock") ||
		strings.Contains(branch, "..") ||
		strings.Contains(branch, "//") ||
		strings.Contains(branch, "@{") ||
		strings.ContainsAny(branch, " \t~^:?*[\\")
	for _, r := range branch {
		if r < 0x20 || r == 0x7f {
			invalid = true
			break
		}
	}
	if invalid {
		return &OperationError{Op: "validate branch name", Detail: fmt.Sprintf("invalid branch name: %q", branch)}
	}
	return nil
}

// CanCreateBranch reports whether branch can legally be created: the name
// is valid, it doesn't already exist, and HEAD resolves to a commit.
func (m *Manager) CanCreateBranch(branch string) (bool, error) {
	if err := ValidateBranchName(branch); err != nil {
		return false, err
	}
	exists, err := m.BranchExists(branch)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := m.repo.Head(); err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return false, nil
		}
		return false, &LibraryError{Op: "check HEAD for branching", Underlying: err}
	}
	return true, nil
}

// CreateWorkBranch implements the create_work_branch state machine of spec
// §4.3: idempotent resume, cross-issue-branch guards, switch-or-create.
func (m *Manager) CreateWorkBranch(issueName string) (string, error) {
	branchName := IssueBranchName(issueName)
	current, err := m.CurrentBranch()
	if err != nil {
		return "", err
	}
	if current == branchName {
		return branchName, nil
	}

	exists, err := m.BranchExists(branchName)
	if err != nil {
		return "", err
	}

	if IsIssueBranch(current) {
		if exists {
			return "", &BranchOperationError{Op: "create", Branch: branchName, Detail: "cannot switch to issue branch from another issue branch"}
		}
		return "", &BranchOperationError{Op: "create", Branch: branchName, Detail: "cannot create new issue branch from another issue branch"}
	}

	if exists {
		if err := m.checkoutBranch(branchName, false); err != nil {
			return "", err
		}
		return branchName, nil
	}

	if ok, err := m.CanCreateBranch(branchName); err != nil {
		return "", err
	} else if !ok {
		return "", &BranchOperationError{Op: "create", Branch: branchName, Detail: "branch creation preconditions not satisfied"}
	}

	if err := m.checkoutBranch(branchName, true); err != nil {
		return "", err
	}
	return branchName, nil
}

// CheckoutBranch switches to an existing branch, forcing the working tree
// to match while leaving untracked files alone.
func (m *Manager) CheckoutBranch(branch string) error {
	return m.checkoutBranch(branch, false)
}

func (m *Manager) checkoutBranch(branch string, create bool) error {
	wt, err := m.repo.Worktree()
	if err != nil {
		return &LibraryError{Op: "get worktree", Underlying: err}
	}
	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
		Force:  true,
		Keep:   true,
	})
	if err != nil {
		return &LibraryError{Op: fmt.Sprintf("checkout branch %q", branch), Underlying: err}
	}
	return nil
}

// DeleteBranch removes a local branch. Deleting a branch that does not
// exist is a success (spec §4.3 Delete branch).
func (m *Manager) DeleteBranch(branch string, force bool) error {
	exists, err := m.BranchExists(branch)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if !force {
		current, err := m.CurrentBranch()
		if err != nil {
			return err
		}
		if current == branch {
			return &BranchOperationError{Op: "delete", Branch: branch, Detail: "cannot delete the currently checked out branch"}
		}
	}
	if err := m.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(branch)); err != nil {
		return &LibraryError{Op: fmt.Sprintf("delete branch %q", branch), Underlying: err}
	}
	return nil
}

// findMergeTargetByReflog implements spec §4.3's reflog-based merge-target
// discovery: scan HEAD's reflog newest-first for a `checkout: moving from
// A to B` entry where B is the issue branch, and return A provided it still
// exists and is not itself an issue branch.
func (m *Manager) findMergeTargetByReflog(issueName string) (string, error) {
	branchName := IssueBranchName(issueName)
	exists, err := m.BranchExists(branchName)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &OperationError{Op: "find merge target", Detail: fmt.Sprintf("issue branch %q does not exist", branchName)}
	}

	entries, err := readHeadReflog(m.gitDir)
	if err != nil {
		return "", err
	}

	for _, entry := range newestFirst(entries) {
		target, ok := parseCheckoutMessage(entry.Message, branchName)
		if !ok {
			continue
		}
		targetExists, err := m.BranchExists(target)
		if err != nil {
			return "", err
		}
		if targetExists && !IsIssueBranch(target) {
			return target, nil
		}
	}

	_ = WriteAbortFile(m.workDir, fmt.Sprintf(
		"Cannot determine merge target for issue %q. No reflog entry found showing where this issue branch was created from. "+
			"This usually means:\n1. The issue branch was not created using standard git checkout operations\n"+
			"2. The reflog has been cleared or is too short\n3. The branch was created externally", issueName))
	return "", &LibraryError{Op: "determine merge target", Underlying: fmt.Errorf("no reflog entry found for issue branch %q", branchName)}
}

// parseCheckoutMessage extracts the source branch from a "checkout: moving
// from A to B" reflog message when B equals targetBranch.
func parseCheckoutMessage(message, targetBranch string) (string, bool) {
	const prefix = "checkout: moving from "
	rest, ok := strings.CutPrefix(message, prefix)
	if !ok {
		return "", false
	}
	from, to, ok := strings.Cut(rest, " to ")
	if !ok {
		return "", false
	}
	to = strings.TrimSpace(to)
	from = strings.TrimSpace(from)
	if to != targetBranch {
		return "", false
	}
	return from, true
}

// MergeIssueBranchAuto discovers the merge target via reflog and merges the
// issue branch into it (spec §4.3 Merge — auto target discovery).
func (m *Manager) MergeIssueBranchAuto(ctx context.Context, issueName string) (string, error) {
	target, err := m.findMergeTargetByReflog(issueName)
	if err != nil {
		return "", err
	}
	if IsIssueBranch(target) {
		return "", &BranchOperationError{Op: "merge", Branch: target, Detail: fmt.Sprintf("cannot merge issue %q to issue branch %q", issueName, target)}
	}
	if err := m.mergeBranchInto(ctx, issueName, target); err != nil {
		return "", err
	}
	return target, nil
}

// MergeIssueBranch merges the issue branch into the explicitly supplied
// source branch (spec §4.3 Merge explicit target).
func (m *Manager) MergeIssueBranch(ctx context.Context, issueName, sourceBranch string) error {
	exists, err := m.BranchExists(sourceBranch)
	if err != nil {
		return err
	}
	if !exists {
		_ = WriteAbortFile(m.workDir, fmt.Sprintf(
			"Source branch %q deleted before merge of issue %q. Manual intervention required to resolve the merge target.",
			sourceBranch, issueName))
		return &BranchOperationError{Op: "merge", Branch: sourceBranch, Detail: fmt.Sprintf("source branch does not exist (may have been deleted after issue %q was created)", issueName)}
	}
	if IsIssueBranch(sourceBranch) {
		return &BranchOperationError{Op: "merge", Branch: sourceBranch, Detail: fmt.Sprintf("cannot merge issue %q to issue branch %q", issueName, sourceBranch)}
	}
	return m.mergeBranchInto(ctx, issueName, sourceBranch)
}

// mergeBranchInto performs the actual checkout+merge. Matching the
// grounding source, merge itself shells out to the git CLI rather than
// using the native library: neither go-git nor the original git2-rs
// implementation have native merge machinery for this operation, so both
// retain a shell fallback here (spec §4.3 preamble).
func (m *Manager) mergeBranchInto(ctx context.Context, issueName, targetBranch string) error {
	log := logger.FromContext(ctx)
	branchName := IssueBranchName(issueName)

	exists, err := m.BranchExists(branchName)
	if err != nil {
		return err
	}
	if !exists {
		return &OperationError{Op: "merge", Detail: fmt.Sprintf("issue branch %q does not exist", branchName)}
	}

	if err := m.CheckoutBranch(targetBranch); err != nil {
		_ = WriteAbortFile(m.workDir, fmt.Sprintf(
			"Failed to checkout target branch %q for issue %q. Git checkout operation failed:\n%v", targetBranch, issueName, err))
		return &BranchOperationError{Op: "checkout", Branch: targetBranch, Detail: err.Error()}
	}

	cmd := exec.CommandContext(ctx, "git", "merge", "--no-ff", branchName, "-m",
		fmt.Sprintf("Merge %s into %s", branchName, targetBranch))
	cmd.Dir = m.workDir
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	output := string(out)
	log.Warn("merge failed", "issue", issueName, "branch", branchName, "target", targetBranch, "output", output)

	switch {
	case strings.Contains(output, "CONFLICT"):
		_ = WriteAbortFile(m.workDir, fmt.Sprintf(
			"Merge conflicts in issue %q: %q -> %q. Manual conflict resolution required:\n%s",
			issueName, branchName, targetBranch, output))
		return &BranchOperationError{Op: "merge", Branch: branchName, Detail: fmt.Sprintf("merge conflicts with source branch %q; manual resolution required", targetBranch)}
	case strings.Contains(output, "Automatic merge failed"):
		_ = WriteAbortFile(m.workDir, fmt.Sprintf(
			"Automatic merge failed for issue %q: %q -> %q. Source branch divergence requires manual intervention:\n%s",
			issueName, branchName, targetBranch, output))
		return &BranchOperationError{Op: "merge", Branch: branchName, Detail: fmt.Sprintf("automatic merge failed with source branch %q; manual intervention required", targetBranch)}
	default:
		_ = WriteAbortFile(m.workDir, fmt.Sprintf(
			"Failed to merge issue %q (%q -> %q):\n%s", issueName, branchName, targetBranch, output))
		return &BranchOperationError{Op: "merge", Branch: branchName, Detail: fmt.Sprintf("failed to merge to source branch %q: %s", targetBranch, output)}
	}
}

// StatusSummary reports the working tree's categorized changes.
func (m *Manager) StatusSummary() (StatusSummary, error) {
	wt, err := m.repo.Worktree()
	if err != nil {
		return StatusSummary{}, &LibraryError{Op: "get worktree", Underlying: err}
	}
	status, err := wt.Status()
	if err != nil {
		return StatusSummary{}, &LibraryError{Op: "get status", Underlying: err}
	}

	var summary StatusSummary
	for path, fs := range status {
		switch fs.Staging {
		case gogit.Added:
			summary.StagedNew = append(summary.StagedNew, path)
		case gogit.Modified:
			summary.StagedModified = append(summary.StagedModified, path)
		case gogit.Deleted:
			summary.StagedDeleted = append(summary.StagedDeleted, path)
		case gogit.Renamed:
			summary.Renamed = append(summary.Renamed, path)
		case gogit.UpdatedButUnmerged:
			summary.Typechange = append(summary.Typechange, path)
		}
		switch fs.Worktree {
		case gogit.Modified:
			summary.UnstagedModified = append(summary.UnstagedModified, path)
		case gogit.Untracked:
			summary.Untracked = append(summary.Untracked, path)
		case gogit.Deleted:
			summary.UnstagedDeleted = append(summary.UnstagedDeleted, path)
		case gogit.Renamed:
			summary.Renamed = append(summary.Renamed, path)
		case gogit.UpdatedButUnmerged:
			summary.Typechange = append(summary.Typechange, path)
		}
	}
	return summary, nil
}

// HasUncommittedChanges is a convenience wrapper over StatusSummary.
func (m *Manager) HasUncommittedChanges() (bool, error) {
	summary, err := m.StatusSummary()
	if err != nil {
		return false, err
	}
	return !summary.IsClean(), nil
}

// GetRecentBranchOperations returns up to limit of the newest HEAD reflog
// entries, for diagnostics (spec §4.3 Reflog API).
func (m *Manager) GetRecentBranchOperations(limit int) ([]ReflogEntry, error) {
	entries, err := readHeadReflog(m.gitDir)
	if err != nil {
		return nil, err
	}
	recent := newestFirst(entries)
	if limit >= 0 && limit < len(recent) {
		recent = recent[:limit]
	}
	return recent, nil
}
