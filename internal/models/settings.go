package models

// AppearanceConfig holds tray appearance settings.
type AppearanceConfig struct {
	IconDir string `yaml:"icon_dir"` // empty = built-in cat
	Tooltip string `yaml:"tooltip"`
}

// DaemonConfig holds settings for the control API listener.
type DaemonConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // 0 = dynamic allocation
}

// LoggingConfig holds daemon log settings.
type LoggingConfig struct {
	File string `yaml:"file"` // empty = stderr; relative paths live under ~/.nekotray/logs
}

// Settings represents global application settings.
// This corresponds to ~/.nekotray/settings.yaml.
type Settings struct {
	Version    int              `yaml:"version"`
	Appearance AppearanceConfig `yaml:"appearance"`
	Daemon     DaemonConfig     `yaml:"daemon"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DefaultTooltip is shown when hovering the tray icon.
const DefaultTooltip = "ฅ(^•ω•^ฅ ◞ ̑̑"

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Appearance: AppearanceConfig{
			IconDir: "",
			Tooltip: DefaultTooltip,
		},
		Daemon: DaemonConfig{
			Host: "localhost",
			Port: 0,
		},
		Logging: LoggingConfig{
			File: "",
		},
	}
}

// ApplyDefaults fills fields left empty in a settings file.
func (s *Settings) ApplyDefaults() {
	defaults := NewSettings()
	if s.Version == 0 {
		s.Version = defaults.Version
	}
	if s.Appearance.Tooltip == "" {
		s.Appearance.Tooltip = defaults.Appearance.Tooltip
	}
	if s.Daemon.Host == "" {
		s.Daemon.Host = defaults.Daemon.Host
	}
}
