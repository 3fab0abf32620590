package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StartRoom != 1 {
		t.Errorf("Expected start room 1, got %d", cfg.StartRoom)
	}
	if !cfg.Audio.Enabled {
		t.Error("Expected audio enabled by default")
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenekit.yaml")
	data := []byte("start_room: 4\nframe_interval: 20ms\nlog:\n  level: debug\nsave:\n  path: slot.db\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SCENEKIT_MASTER_VOLUME", "150")
	t.Setenv("SCENEKIT_SAVE_PATH", "override.db")
	t.Setenv("SCENEKIT_AUDIO_ENABLED", "nope")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StartRoom != 4 {
		t.Errorf("Expected start room 4, got %d", cfg.StartRoom)
	}
	if cfg.FrameInterval != 20*time.Millisecond {
		t.Errorf("Expected 20ms, got %v", cfg.FrameInterval)
	}
	if cfg.Audio.MasterVolume != 1.0 {
		t.Errorf("Expected volume clamped to 1.0, got %v", cfg.Audio.MasterVolume)
	}
	if cfg.Save.Path != "override.db" {
		t.Errorf("Expected env save path, got %q", cfg.Save.Path)
	}
	if !cfg.Audio.Enabled {
		t.Error("Expected malformed bool to be ignored")
	}
}

func TestValidateRejectsZeroInterval(t *testing.T) {
	cfg := Default()
	cfg.FrameInterval = 0
	cfg.StartRoom = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
