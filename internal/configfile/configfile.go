// Package configfile resolves the on-disk location of the config document
// and database file, generalizing the teacher's beadsDir-relative path
// helpers to IronLog's single env-var-or-OS-standard-dir rule (§6).
package configfile

import (
	"os"
	"path/filepath"

	"github.com/ironlog-dev/ironlog/internal/logging"
)

const (
	// EnvConfigDir overrides the config directory when set (§6).
	EnvConfigDir = "WORKOUT_CONFIG_DIR"

	// AppDirName is the application-specific subdirectory created under
	// the OS-standard user config dir when EnvConfigDir is unset.
	AppDirName = "ironlog"

	// ConfigFileName is the TOML document's filename within the config dir.
	ConfigFileName = "config.toml"

	// DBFileName is the SQLite database's filename within the config dir.
	DBFileName = "workouts.db"
)

// Dir resolves the config directory per §6: WORKOUT_CONFIG_DIR when set
// (creating it if needed, warning on stderr if the path exists but is not
// a directory), otherwise the OS-standard user-config dir under
// AppDirName.
func Dir() (string, error) {
	if v := os.Getenv(EnvConfigDir); v != "" {
		info, err := os.Stat(v)
		switch {
		case os.IsNotExist(err):
			if mkErr := os.MkdirAll(v, 0o700); mkErr != nil {
				return "", mkErr
			}
		case err != nil:
			return "", err
		case !info.IsDir():
			logging.Warn("%s=%s is not a directory; replacing it with one", EnvConfigDir, v)
			if rmErr := os.Remove(v); rmErr != nil {
				return "", rmErr
			}
			if mkErr := os.MkdirAll(v, 0o700); mkErr != nil {
				return "", mkErr
			}
		}
		return v, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, AppDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigPath returns the full path to the TOML config document.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DBFileName), nil
}
