package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LogFilePath resolves the configured log file. Relative names are placed in
// the global logs directory; an empty name yields the default daemon log.
func LogFilePath(name string) (string, error) {
	if name == "" {
		name = DaemonLogName
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// OpenLog opens the log file for appending, creating parent directories as
// needed.
func OpenLog(name string) (io.WriteCloser, string, error) {
	path, err := LogFilePath(name)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, path, nil
}
