package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("hello"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)

	m, err := Open(dir)
	require.NoError(t, err)
	return m, dir
}

func writeReflogLine(t *testing.T, gitDir, message string) {
	t.Helper()
	path := filepath.Join(gitDir, "logs", "HEAD")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	line := "0000000000000000000000000000000000000000 1111111111111111111111111111111111111111 " +
		"tester <tester@example.com> 1700000000 +0000\t" + message + "\n"
	_, err = f.WriteString(line)
	require.NoError(t, err)
}

func TestManager_BranchLifecycle(t *testing.T) {
	t.Run("Should report the initial branch and that an unknown issue branch does not exist", func(t *testing.T) {
		m, _ := initTestRepo(t)
		current, err := m.CurrentBranch()
		require.NoError(t, err)
		assert.NotEmpty(t, current)

		exists, err := m.BranchExists("issue/not-real")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should create and check out a new issue branch", func(t *testing.T) {
		m, _ := initTestRepo(t)
		branch, err := m.CreateWorkBranch("add-feature")
		require.NoError(t, err)
		assert.Equal(t, "issue/add-feature", branch)

		current, err := m.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "issue/add-feature", current)
	})

	t.Run("Should be idempotent when already on the target issue branch", func(t *testing.T) {
		m, _ := initTestRepo(t)
		_, err := m.CreateWorkBranch("resume-me")
		require.NoError(t, err)

		branch, err := m.CreateWorkBranch("resume-me")
		require.NoError(t, err)
		assert.Equal(t, "issue/resume-me", branch)
	})

	t.Run("Should switch to an existing issue branch rather than recreate it", func(t *testing.T) {
		m, dir := initTestRepo(t)
		_, err := m.CreateWorkBranch("existing")
		require.NoError(t, err)
		require.NoError(t, m.CheckoutBranch(defaultBranchNameOf(t, dir)))

		branch, err := m.CreateWorkBranch("existing")
		require.NoError(t, err)
		assert.Equal(t, "issue/existing", branch)
	})

	t.Run("Should refuse creating an issue branch from another issue branch", func(t *testing.T) {
		m, _ := initTestRepo(t)
		_, err := m.CreateWorkBranch("first")
		require.NoError(t, err)

		_, err = m.CreateWorkBranch("second")
		require.Error(t, err)
		var branchErr *BranchOperationError
		assert.ErrorAs(t, err, &branchErr)
	})

	t.Run("Should refuse switching to an existing issue branch from another issue branch", func(t *testing.T) {
		m, dir := initTestRepo(t)
		base := defaultBranchNameOf(t, dir)
		_, err := m.CreateWorkBranch("target")
		require.NoError(t, err)
		require.NoError(t, m.CheckoutBranch(base))
		_, err = m.CreateWorkBranch("other")
		require.NoError(t, err)

		_, err = m.CreateWorkBranch("target")
		require.Error(t, err)
	})
}

func TestManager_DeleteBranch(t *testing.T) {
	t.Run("Should be idempotent when deleting a non-existent branch", func(t *testing.T) {
		m, _ := initTestRepo(t)
		err := m.DeleteBranch("issue/never-existed", true)
		assert.NoError(t, err)
	})

	t.Run("Should delete an existing non-current branch", func(t *testing.T) {
		m, dir := initTestRepo(t)
		base := defaultBranchNameOf(t, dir)
		_, err := m.CreateWorkBranch("throwaway")
		require.NoError(t, err)
		require.NoError(t, m.CheckoutBranch(base))

		err = m.DeleteBranch("issue/throwaway", false)
		require.NoError(t, err)

		exists, err := m.BranchExists("issue/throwaway")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestManager_StatusSummary(t *testing.T) {
	t.Run("Should report clean for a freshly committed worktree", func(t *testing.T) {
		m, _ := initTestRepo(t)
		summary, err := m.StatusSummary()
		require.NoError(t, err)
		assert.True(t, summary.IsClean())
	})

	t.Run("Should report untracked files", func(t *testing.T) {
		m, dir := initTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))

		summary, err := m.StatusSummary()
		require.NoError(t, err)
		assert.False(t, summary.IsClean())
		assert.Contains(t, summary.Untracked, "new.txt")
	})
}

func TestParseCheckoutMessage(t *testing.T) {
	t.Run("Should extract the source branch from a matching checkout message", func(t *testing.T) {
		from, ok := parseCheckoutMessage("checkout: moving from main to issue/add-feature", "issue/add-feature")
		assert.True(t, ok)
		assert.Equal(t, "main", from)
	})

	t.Run("Should not match when the target branch differs", func(t *testing.T) {
		_, ok := parseCheckoutMessage("checkout: moving from main to issue/other", "issue/add-feature")
		assert.False(t, ok)
	})

	t.Run("Should not match non-checkout messages", func(t *testing.T) {
		_, ok := parseCheckoutMessage("commit: did a thing", "issue/add-feature")
		assert.False(t, ok)
	})
}

func TestManager_FindMergeTargetByReflog(t *testing.T) {
	t.Run("Should discover the merge target from a manually-appended reflog entry", func(t *testing.T) {
		m, dir := initTestRepo(t)
		base := defaultBranchNameOf(t, dir)
		_, err := m.CreateWorkBranch("reflog-case")
		require.NoError(t, err)

		writeReflogLine(t, m.gitDir, "checkout: moving from "+base+" to issue/reflog-case")

		target, err := m.findMergeTargetByReflog("reflog-case")
		require.NoError(t, err)
		assert.Equal(t, base, target)
	})

	t.Run("Should write an abort file and fail when no reflog entry is found", func(t *testing.T) {
		m, dir := initTestRepo(t)
		_, err := m.CreateWorkBranch("orphaned")
		require.NoError(t, err)
		require.NoError(t, os.Remove(filepath.Join(m.gitDir, "logs", "HEAD")))

		_, err = m.findMergeTargetByReflog("orphaned")
		require.Error(t, err)
		assert.True(t, AbortFileExists(dir))
	})
}

func TestManager_GetRecentBranchOperations(t *testing.T) {
	t.Run("Should return reflog entries newest first, capped at the limit", func(t *testing.T) {
		m, _ := initTestRepo(t)
		writeReflogLine(t, m.gitDir, "checkout: moving from main to issue/a")
		writeReflogLine(t, m.gitDir, "checkout: moving from issue/a to main")

		entries, err := m.GetRecentBranchOperations(1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "issue/a to main")
	})
}

func TestAbortFile(t *testing.T) {
	t.Run("Should write and detect an abort marker", func(t *testing.T) {
		dir := t.TempDir()
		assert.False(t, AbortFileExists(dir))
		require.NoError(t, WriteAbortFile(dir, "manual intervention required"))
		assert.True(t, AbortFileExists(dir))
	})
}

func TestValidateBranchName(t *testing.T) {
	t.Run("Should accept a normal issue branch name", func(t *testing.T) {
		assert.NoError(t, ValidateBranchName("issue/add-feature"))
	})

	t.Run("Should reject names with disallowed characters", func(t *testing.T) {
		assert.Error(t, ValidateBranchName("issue/has space"))
		assert.Error(t, ValidateBranchName("issue/has~tilde"))
		assert.Error(t, ValidateBranchName(""))
		assert.Error(t, ValidateBranchName("-leading-dash"))
	})
}

func defaultBranchNameOf(t *testing.T, dir string) string {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	require.True(t, head.Name().IsBranch())
	return head.Name().Short()
}
