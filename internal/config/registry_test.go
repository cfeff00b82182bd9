package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "fireremote") {
		t.Errorf("GetConfigDir() = %v, should contain 'fireremote'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if !reg.Preferences.AutoWake {
		t.Error("NewRegistry().Preferences.AutoWake should be true by default")
	}
	if reg.Preferences.CommandSpacingMS != 500 {
		t.Errorf("CommandSpacingMS = %v, want 500", reg.Preferences.CommandSpacingMS)
	}
	if reg.HasTarget() {
		t.Error("new registry should have no target")
	}
}

func TestSetTarget(t *testing.T) {
	reg := NewRegistry()

	reg.SetTarget("192.168.1.40", "Living Room")
	if !reg.HasTarget() {
		t.Fatal("HasTarget() = false after SetTarget")
	}
	if reg.Paired() {
		t.Error("Paired() = true without a token")
	}

	reg.Target.Token = "tok"
	if !reg.Paired() {
		t.Error("Paired() = false with a token present")
	}

	// Re-selecting the same address keeps the token
	reg.SetTarget("192.168.1.40", "Renamed")
	if reg.Target.Token != "tok" {
		t.Error("token dropped when re-selecting the same address")
	}
	if reg.Target.Name != "Renamed" {
		t.Errorf("Name = %q, want updated name", reg.Target.Name)
	}

	// A different address invalidates the old pairing
	reg.SetTarget("192.168.1.41", "Bedroom")
	if reg.Target.Token != "" {
		t.Error("token survived a target switch")
	}
}

func TestRememberDevice(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.RememberDevice("192.168.1.40", "Living Room", "AFTMM")
	after := time.Now()

	entry := reg.Devices["192.168.1.40"]
	if entry == nil {
		t.Fatal("device not recorded")
	}
	if entry.Name != "Living Room" || entry.Model != "AFTMM" {
		t.Errorf("entry = %+v, want name and model recorded", entry)
	}
	if entry.LastSeen.Before(before) || entry.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", entry.LastSeen, before, after)
	}

	// A later sighting without metadata must not erase what we know
	reg.RememberDevice("192.168.1.40", "", "")
	if entry.Name != "Living Room" {
		t.Error("empty rediscovery erased the cached name")
	}
}

func TestSaveAndReload(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME override only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg := NewRegistry()
	reg.SetTarget("192.168.1.40", "Living Room")
	if err := reg.SaveCredentials("192.168.1.40", "AB12CD34TOKEN"); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	loaded, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}
	if !loaded.Paired() {
		t.Fatal("reloaded registry lost the pairing")
	}
	if loaded.Target.Token != "AB12CD34TOKEN" {
		t.Errorf("Token = %q, want round-tripped token", loaded.Target.Token)
	}
	if loaded.Target.Name != "Living Room" {
		t.Errorf("Name = %q, want round-tripped name", loaded.Target.Name)
	}
}

func TestClearCredentials(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME override only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg := NewRegistry()
	if err := reg.SaveCredentials("192.168.1.40", "tok"); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}
	if err := reg.ClearCredentials(); err != nil {
		t.Fatalf("ClearCredentials() error = %v", err)
	}

	if reg.Paired() {
		t.Error("Paired() = true after ClearCredentials")
	}
	// Target selection survives; only the token is dropped
	if !reg.HasTarget() {
		t.Error("target lost along with the credentials")
	}

	loaded, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}
	if loaded.Paired() {
		t.Error("reloaded registry still paired after ClearCredentials")
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME override only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(configDir, configFile)
	if err := os.WriteFile(configPath, []byte("version: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRegistryFromDisk(); err == nil {
		t.Error("loadRegistryFromDisk() = nil error for unsupported version")
	}
}
