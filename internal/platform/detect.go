package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultModelDirFor resolves the per-user model storage directory for the
// given OS. The host application ships on Linux, macOS and Windows, so all
// three get a conventional data location.
func DefaultModelDirFor(goos, homeDir, xdgDataHome, appData string) (string, error) {
	dataDir, err := defaultDataDirFor(goos, homeDir, xdgDataHome, appData)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "models"), nil
}

// ResolveModelDir returns the override unchanged when set, otherwise the
// platform default for the current user.
func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	return DefaultModelDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_DATA_HOME"), os.Getenv("APPDATA"))
}

func defaultDataDirFor(goos, homeDir, xdgDataHome, appData string) (string, error) {
	switch goos {
	case "linux":
		if xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "polyglot"), nil
		}
		if homeDir == "" {
			return "", errors.New("home directory is empty")
		}
		return filepath.Join(homeDir, ".local", "share", "polyglot"), nil
	case "darwin":
		if homeDir == "" {
			return "", errors.New("home directory is empty")
		}
		return filepath.Join(homeDir, "Library", "Application Support", "polyglot"), nil
	case "windows":
		if appData == "" {
			return "", errors.New("APPDATA is empty")
		}
		return filepath.Join(appData, "polyglot"), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}
