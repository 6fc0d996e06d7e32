// Package fsutil removes transient render products with bounded retries,
// tolerating short-lived locks held by external processes.
package fsutil

import (
	"fmt"
	"os"
	"time"
)

const (
	removeAttempts = 5
	removeBackoff  = 500 * time.Millisecond
)

// RemoveDir deletes a directory tree, retrying on failure with a fixed
// backoff. A missing directory is not an error.
func RemoveDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	var last error
	for attempt := 0; attempt < removeAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(removeBackoff)
		}
		if last = os.RemoveAll(path); last == nil {
			return nil
		}
	}
	return fmt.Errorf("fsutil: remove %s after %d attempts: %w", path, removeAttempts, last)
}
