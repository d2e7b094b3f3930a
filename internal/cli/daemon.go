package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/nekotray/nekotray/internal/config"
	"github.com/nekotray/nekotray/internal/models"
)

const daemonBinary = "nekotrayd"

// startDaemon starts the daemon process in the background.
func startDaemon() error {
	// Find the daemon binary
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return err
	}

	// Start daemon in background
	cmd := exec.Command(daemonPath)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	// The daemon outlives us; don't leave a zombie behind if it exits early.
	go func() { _ = cmd.Wait() }()

	// Wait for daemon to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("daemon failed to start within timeout")
}

// findDaemonBinary locates the nekotrayd binary.
func findDaemonBinary() (string, error) {
	name := daemonBinary
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	// Try PATH first
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	// Try next to the current executable
	if execPath, err := os.Executable(); err == nil {
		daemonPath := filepath.Join(filepath.Dir(execPath), name)
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	// Try build directory
	if path := filepath.Join("build", name); fileExists(path) {
		return "./" + filepath.ToSlash(path), nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", daemonBinary)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetDaemonStatus returns the daemon status.
func GetDaemonStatus() (bool, *models.DaemonInfo, error) {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return false, nil, err
	}
	if !running || info == nil {
		return false, nil, nil
	}
	return true, info, nil
}

// formatUptime renders the time since start, truncated to whole seconds.
func formatUptime(startedAt, now time.Time) string {
	d := now.Sub(startedAt)
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second).String()
}
