package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"family-hub-go/pkg/logger"
	"github.com/joho/godotenv"
)

const (
	dotenvFilename = ".env"
	envFileVar     = "ENV_FILE"
	moduleMarker   = "go.mod"
)

// loadDotEnv loads ENV_FILE when set, otherwise the nearest .env inside the
// module. godotenv.Load never overrides variables that are already set.
func loadDotEnv(log logger.Logger) error {
	path := strings.TrimSpace(os.Getenv(envFileVar))
	if path == "" {
		found, err := FindUpward(dotenvFilename, false)
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("dotenv: no .env file found")
			return nil
		}
		if err != nil {
			return err
		}
		path = found
	}

	if err := godotenv.Load(path); err != nil {
		return err
	}
	log.Info("dotenv: loaded", "path", path)
	return nil
}

// FindUpward looks for name from the working directory up to the directory
// holding go.mod (or the filesystem root when there is none). wantDir
// selects directories instead of regular files.
func FindUpward(name string, wantDir bool) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() == wantDir {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, moduleMarker)); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
