package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnsureUserConfig copies the bundled default config into the data dir on
// first run and returns the path to the user copy.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// LoadEnv reads an optional .env file; missing files are fine, the
// environment simply wins as-is.
func LoadEnv() {
	_ = godotenv.Load()
}
