package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/cukraszda/internal/errors"
)

const suffix = ".pid"

// PathFor returns the lock file guarding the database at dbPath, so runs
// against different databases never block each other.
func PathFor(dbPath string) string {
	return dbPath + suffix
}

// Write records the current process ID at path, failing if a live process already holds it.
func Write(path string) error {
	errFactory := errors.New()

	if raw, err := os.ReadFile(path); err == nil {
		if holder, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil && holder != os.Getpid() && alive(holder) {
			return errFactory.WithData(errors.ErrAlreadyRunning, holder)
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
