package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
)

// envFiles are tried in order; values never override the process environment.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads environment variables from .env files found in dir.
// Missing files are ignored, malformed ones are reported.
func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to load env file").
				WithContext("path", path).
				Fatal().
				Build()
		}
	}
	return nil
}
