package store

import (
	"path/filepath"

	"codeberg.org/mutker/cukraszda/internal/errors"
)

const (
	defaultDirPerm    = 0o755
	defaultDBPath     = "cukraszda.db"
	defaultCollection = "Measurements"
	backupDirName     = "backups"
)

type Config struct {
	DBPath          string
	Collection      string
	BackupOnMigrate bool
}

func DefaultConfig() Config {
	return Config{
		DBPath:          defaultDBPath,
		Collection:      defaultCollection,
		BackupOnMigrate: true,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.Collection == "" {
		return errFactory.New(ErrInvalidCollection)
	}
	return nil
}

func (c Config) backupDir() string {
	return filepath.Join(filepath.Dir(c.DBPath), backupDirName)
}
