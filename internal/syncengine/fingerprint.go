package syncengine

import "os"

// Fingerprint returns the change-detection value for a single file: its
// modification time in unix nanoseconds. A missing file yields zero.
func Fingerprint(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// CompositeFingerprint combines the modification times of every contributing
// file, so a change to any of them invalidates the cache entry. Missing
// contributors drop out of the sum, which still shifts the value relative to
// the run that included them.
func CompositeFingerprint(paths ...string) int64 {
	var sum int64
	for _, path := range paths {
		sum += Fingerprint(path)
	}
	return sum
}
