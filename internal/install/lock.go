package install

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// lockStaleAfter is the age past which an existing lockfile is treated as
// abandoned by a crashed process.
const lockStaleAfter = 60 * time.Second

// CreateLock writes the current process id to path, marking the install
// directory as in use.
func CreateLock(path string) error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid), 0o644); err != nil {
		return fmt.Errorf("create lockfile: %w", err)
	}
	return nil
}

// IsLocked reports whether a live lock exists at path. A lockfile whose
// modification time is older than the staleness threshold is deleted and
// reported as unlocked, so a crashed owner cannot block updates forever.
func IsLocked(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat lockfile: %w", err)
	}

	if time.Since(info.ModTime()) > lockStaleAfter {
		if err := os.Remove(path); err != nil {
			return false, fmt.Errorf("remove stale lockfile: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// ReleaseLock removes the lockfile.
func ReleaseLock(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("release lockfile: %w", err)
	}
	return nil
}
