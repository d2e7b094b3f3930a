// Package models defines the on-disk data structures.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DaemonInfo represents the daemon connection information.
// This corresponds to ~/.nekotray/daemon.yaml.
type DaemonInfo struct {
	Version    int       `yaml:"version"`
	InstanceID string    `yaml:"instance_id"`
	Host       string    `yaml:"host"`
	Port       int       `yaml:"port"`
	PID        int       `yaml:"pid"`
	Mode       string    `yaml:"mode"` // "tray" | "foreground"
	StartedAt  time.Time `yaml:"started_at"`
}

// Daemon run modes.
const (
	ModeTray       = "tray"
	ModeForeground = "foreground"
)

// NewDaemonInfo creates a new daemon info with current values and a fresh
// instance ID.
func NewDaemonInfo(host string, port, pid int, mode string) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		InstanceID: uuid.New().String(),
		Host:       host,
		Port:       port,
		PID:        pid,
		Mode:       mode,
		StartedAt:  time.Now().UTC(),
	}
}
