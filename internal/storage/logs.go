package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogStorage manages step log files, one file per executed step,
// grouped by run and instance.
type LogStorage struct {
	BaseDir string
}

// NewLogStorage creates a new log storage handler rooted at baseDir.
func NewLogStorage(baseDir string) *LogStorage {
	return &LogStorage{BaseDir: baseDir}
}

// SaveStepLog writes the output of one step under
// <base>/<run>/<instance>/<seq>_<step>.log and returns the path.
func (ls *LogStorage) SaveStepLog(runID, instanceID, step string, seq int, output string) (string, error) {
	dir := filepath.Join(ls.BaseDir, sanitize(runID), sanitize(instanceID))
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%02d_%s.log", seq, sanitize(step))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize keeps filenames to a safe character set.
func sanitize(name string) string {
	clean := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			clean = append(clean, r)
		default:
			clean = append(clean, '_')
		}
	}
	if len(clean) == 0 {
		return "step"
	}
	return string(clean)
}
