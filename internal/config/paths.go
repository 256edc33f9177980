package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileLocations lists where a config file is looked for, in order:
// the working directory, a configs/ directory and the executable directory.
func ConfigFileLocations() []string {
	locations := []string{
		ConfigFileName,
		filepath.Join("configs", ConfigFileName),
	}

	if exeDir, err := ExecutableDir(); err == nil {
		locations = append(locations,
			filepath.Join(exeDir, ConfigFileName),
			filepath.Join(exeDir, "configs", ConfigFileName),
		)
	}

	return locations
}

// ExecutableDir returns the directory of the running binary with symlinks
// resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// LogFilePath returns the absolute log file path. Relative paths are resolved
// against the executable directory so logs land next to the binary whatever
// the working directory is.
func (c *Config) LogFilePath() string {
	path := c.Logging.FilePath
	if path == "" {
		path = DefaultLogFile
	}
	if filepath.IsAbs(path) {
		return path
	}

	exeDir, err := ExecutableDir()
	if err != nil {
		return path
	}
	return filepath.Join(exeDir, path)
}

// EnsureLogDir creates the directory of the log file when file output is on.
func (c *Config) EnsureLogDir() error {
	if c.Logging.Output == "console" {
		return nil
	}
	dir := filepath.Dir(c.LogFilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return nil
}
