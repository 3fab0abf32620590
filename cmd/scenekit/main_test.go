package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/save"
)

func headlessConfig(t *testing.T, args ...string) (options, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "saves.db")
	o, err := parseFlags(append([]string{"-headless", "-save", dbPath}, args...), io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	return o, dbPath
}

func TestResolveConfigAppliesFlags(t *testing.T) {
	o, dbPath := headlessConfig(t, "-room", "2", "-feed", "127.0.0.1:0")
	cfg, err := resolveConfig(o)
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.StartRoom != 2 || !cfg.Headless || cfg.Save.Path != dbPath || cfg.Feed.Addr != "127.0.0.1:0" {
		t.Errorf("Expected flag overrides applied, got %+v", cfg)
	}
	if cfg.Audio.Enabled {
		t.Error("Expected audio disabled in headless mode")
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"-bogus"}, io.Discard); err == nil {
		t.Error("Expected error for unknown flag")
	}
}

func TestHeadlessFastForward(t *testing.T) {
	o, _ := headlessConfig(t, "-frames", "60")
	cfg, err := resolveConfig(o)
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, o, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ran 60 frames, room 1") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestListAndLoadSaves(t *testing.T) {
	o, dbPath := headlessConfig(t, "-list")
	cfg, err := resolveConfig(o)
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), cfg, o, &out); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "no saves" {
		t.Errorf("Expected empty listing, got %q", out.String())
	}

	store, err := save.Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := store.Save(context.Background(), "cellar", engine.SaveState{
		Room:     2,
		Position: core.Point{X: 80, Y: 160},
		Global:   map[string]int{"has_key": 1},
	})
	store.Close()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out.Reset()
	if err := run(context.Background(), cfg, o, &out); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "cellar") {
		t.Errorf("Expected save listed, got %q", out.String())
	}

	o.list, o.load, o.frames = false, "latest", 1
	out.Reset()
	if err := run(context.Background(), cfg, o, &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !strings.Contains(out.String(), "room 2") {
		t.Errorf("Expected restored cellar, got %q", out.String())
	}
}
