package issue

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
)

// removeLeftoverDuplicate deletes the opposite-directory copy of an issue
// that just moved into completedPath, if one was recreated between the
// reconciliation scan and the rename (spec §4.2 step 5). A single retry
// absorbs a transient interrupted-syscall failure; NotFound and
// PermissionDenied are tolerated since the duplicate may already be gone
// or may belong to another process.
func removeLeftoverDuplicate(ctx context.Context, completedPath string) {
	log := logger.FromContext(ctx)
	dir := filepath.Dir(filepath.Dir(completedPath))
	activePath := filepath.Join(dir, filepath.Base(completedPath))
	if activePath == completedPath {
		return
	}
	if _, err := os.Stat(activePath); os.IsNotExist(err) {
		return
	}

	b := retry.WithMaxRetries(1, retry.NewConstant(5*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := os.Remove(activePath)
		if err == nil || os.IsNotExist(err) || os.IsPermission(err) {
			return nil
		}
		if errors.Is(err, os.ErrInvalid) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		log.Warn("failed to remove leftover active duplicate", "path", activePath, "error", err.Error())
	}
}
