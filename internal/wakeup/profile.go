package wakeup

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

// profileFiles carry the upstream login session of a Chrome profile
var profileFiles = []string{"Cookies", "Login Data", "Local State", "Preferences"}

// PrepareProfile copies the session files of sourceDir into a fresh temporary
// user-data directory so Chrome can reuse an existing login without locking
// the original profile. Missing files are skipped. The caller removes the
// returned directory.
func PrepareProfile(fs adapter.FileSystem, sourceDir string) (string, error) {
	dir, err := fs.MkdirTemp("", "chrome-wake-migrate-")
	if err != nil {
		return "", fmt.Errorf("failed to create profile dir: %w", err)
	}
	if sourceDir == "" {
		return dir, nil
	}

	for _, name := range profileFiles {
		src := filepath.Join(sourceDir, name)
		exists, err := fs.Exists(src)
		if err != nil || !exists {
			continue
		}

		data, err := fs.ReadFile(src)
		if err != nil {
			logger.Warn("Failed to read profile file", zap.String("file", src), zap.Error(err))
			continue
		}
		if err := fs.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			_ = fs.RemoveAll(dir)
			return "", fmt.Errorf("failed to copy %s: %w", name, err)
		}
		logger.Debug("Copied profile file", zap.String("file", name))
	}

	return dir, nil
}
