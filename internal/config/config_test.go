package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nekotray/nekotray/internal/models"
)

func setHome(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv(HomeEnv, dir)
	return dir
}

func TestLoadSettingsDefault(t *testing.T) {
	setHome(t)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Appearance.Tooltip != models.DefaultTooltip {
		t.Errorf("Tooltip = %q, want default", s.Appearance.Tooltip)
	}
	if s.Daemon.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", s.Daemon.Host)
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	home := setHome(t)

	s := models.NewSettings()
	s.Appearance.IconDir = "/opt/cats"
	s.Daemon.Port = 7777
	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, SettingsFileName)); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	got, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if got.Appearance.IconDir != "/opt/cats" || got.Daemon.Port != 7777 {
		t.Errorf("LoadSettings() = %+v, want icon_dir /opt/cats port 7777", got)
	}

	entries, _ := os.ReadDir(home)
	if len(entries) != 1 {
		t.Errorf("global dir has %d entries, want only settings.yaml", len(entries))
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	home := setHome(t)
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte("appearance:\n  icon_dir: /tmp/pack\n")
	if err := os.WriteFile(filepath.Join(home, SettingsFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Appearance.IconDir != "/tmp/pack" {
		t.Errorf("IconDir = %q, want /tmp/pack", s.Appearance.IconDir)
	}
	if s.Appearance.Tooltip != models.DefaultTooltip || s.Daemon.Host != "localhost" || s.Version != 1 {
		t.Errorf("defaults not applied: %+v", s)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	home := setHome(t)
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, SettingsFileName), []byte("appearance: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(); err == nil {
		t.Error("LoadSettings() error = nil, want parse error")
	}
}

func TestDaemonInfoLifecycle(t *testing.T) {
	setHome(t)

	running, info, err := IsDaemonRunning()
	if err != nil || running || info != nil {
		t.Fatalf("IsDaemonRunning() = %v, %v, %v, want false, nil, nil", running, info, err)
	}

	self := models.NewDaemonInfo("localhost", 4242, os.Getpid(), models.ModeForeground)
	if err := SaveDaemonInfo(self); err != nil {
		t.Fatalf("SaveDaemonInfo() error = %v", err)
	}

	running, info, err = IsDaemonRunning()
	if err != nil || !running {
		t.Fatalf("IsDaemonRunning() = %v, %v, want true", running, err)
	}
	if info.Port != 4242 || info.InstanceID != self.InstanceID || info.Mode != models.ModeForeground {
		t.Errorf("info = %+v, want port 4242 and matching instance", info)
	}

	if err := RemoveDaemonInfo(); err != nil {
		t.Fatalf("RemoveDaemonInfo() error = %v", err)
	}
	if err := RemoveDaemonInfo(); err != nil {
		t.Fatalf("second RemoveDaemonInfo() error = %v", err)
	}
}

func TestIsDaemonRunningStale(t *testing.T) {
	setHome(t)

	stale := models.NewDaemonInfo("localhost", 1, -1, models.ModeTray)
	if err := SaveDaemonInfo(stale); err != nil {
		t.Fatalf("SaveDaemonInfo() error = %v", err)
	}

	running, info, err := IsDaemonRunning()
	if err != nil || running {
		t.Fatalf("IsDaemonRunning() = %v, %v, want false", running, err)
	}
	if info == nil {
		t.Fatal("stale info not returned")
	}

	path, _ := GlobalDaemonFile()
	if FileExists(path) {
		t.Error("stale daemon.yaml not removed")
	}
}

func TestLogFilePath(t *testing.T) {
	home := setHome(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "default", in: "", want: filepath.Join(home, LogsDirName, DaemonLogName)},
		{name: "relative", in: "cat.log", want: filepath.Join(home, LogsDirName, "cat.log")},
		{name: "absolute", in: "/var/log/cat.log", want: "/var/log/cat.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LogFilePath(tt.in)
			if err != nil {
				t.Fatalf("LogFilePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("LogFilePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpenLog(t *testing.T) {
	setHome(t)

	w, path, err := OpenLog("")
	if err != nil {
		t.Fatalf("OpenLog() error = %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello\n" {
		t.Errorf("log contents = %q, %v, want hello", data, err)
	}
}
