package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/sensor"
)

const (
	DefaultPath     = "measurements.json"
	defaultFilePerm = 0o644
	defaultDirPerm  = 0o755
	indent          = "  "
)

const (
	ErrInvalidPath = errors.ErrorCode("export_invalid_path")
	ErrEncode      = errors.ErrorCode("export_encode_failed")
	ErrWrite       = errors.ErrorCode("export_write_failed")
	ErrRead        = errors.ErrorCode("export_read_failed")
	ErrDecode      = errors.ErrorCode("export_decode_failed")
)

// JSONFile writes measurements as an indented JSON array, replacing the file each time.
type JSONFile struct {
	path string
	log  logger.Logger
}

func NewJSONFile(path string, log logger.Logger) *JSONFile {
	return &JSONFile{path: path, log: log}
}

func (*JSONFile) Name() string {
	return "json-export"
}

func (j *JSONFile) Path() string {
	return j.path
}

func (j *JSONFile) Persist(ctx context.Context, records []sensor.Measurement) error {
	errFactory := errors.New()

	if j.path == "" {
		return errFactory.New(ErrInvalidPath)
	}
	if err := ctx.Err(); err != nil {
		return errFactory.Wrap(errors.ErrTimeout, err)
	}

	if records == nil {
		records = []sensor.Measurement{}
	}

	raw, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return errFactory.Wrap(ErrEncode, err)
	}

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return errFactory.Wrap(ErrWrite, err)
		}
	}

	if err := os.WriteFile(j.path, append(raw, '\n'), defaultFilePerm); err != nil {
		return errFactory.WithData(ErrWrite, struct {
			Path  string
			Error string
		}{
			Path:  j.path,
			Error: err.Error(),
		})
	}

	j.log.Debug().
		Str("path", j.path).
		Int("records", len(records)).
		Msg("Exported measurements to JSON")

	return nil
}

// ReadJSON parses a file written by JSONFile.
func ReadJSON(path string) ([]sensor.Measurement, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrRead, err)
	}

	var out []sensor.Measurement
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errFactory.Wrap(ErrDecode, err)
	}

	return out, nil
}
