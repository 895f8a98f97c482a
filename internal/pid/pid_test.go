package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cukraszda.pid")

	require.NoError(t, pid.Write(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(raw))

	require.NoError(t, pid.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, pid.Remove(path))
}

func TestWriteRejectsLiveHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cukraszda.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := pid.Write(path)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cukraszda.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o600))

	assert.NoError(t, pid.Write(path))
}

func TestPathForFollowsDatabase(t *testing.T) {
	dir := t.TempDir()
	a := pid.PathFor(filepath.Join(dir, "a", "cukraszda.db"))
	b := pid.PathFor(filepath.Join(dir, "b", "cukraszda.db"))

	assert.Equal(t, filepath.Join(dir, "a", "cukraszda.db.pid"), a)
	assert.NotEqual(t, a, b)

	require.NoError(t, pid.Write(a))
	require.NoError(t, os.WriteFile(a, []byte(strconv.Itoa(os.Getppid())), 0o600))

	assert.NoError(t, pid.Write(b))
	assert.FileExists(t, b)
}
