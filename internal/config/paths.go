package config

import (
	"os"
	"path/filepath"
)

// Environment variables naming the config file and cache directory.
const (
	EnvConfig   = "BUILDPACK_CONFIG"
	EnvCacheDir = "BUILDPACK_CACHE_DIR"
)

// Paths contains standard filesystem paths for buildpack.
type Paths struct {
	// ConfigFile is the path to the config file (~/.buildpack/config.yaml).
	ConfigFile string

	// CacheDir is the path to the cache directory (~/.buildpack/cache).
	CacheDir string

	// HomeDir is the buildpack home directory (~/.buildpack).
	HomeDir string
}

// DefaultPaths returns the default paths for buildpack.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".buildpack")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		CacheDir:   filepath.Join(home, "cache"),
		HomeDir:    home,
	}, nil
}

// GetConfigFile returns the config file path.
// If BUILDPACK_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// GetCacheDir returns the cache directory path.
// If BUILDPACK_CACHE_DIR is set, it takes precedence.
func GetCacheDir() (string, error) {
	if envPath := os.Getenv(EnvCacheDir); envPath != "" {
		return ExpandPath(envPath)
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.CacheDir, nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}
