package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/slidescene/internal/extract"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.RootID != "presentation-slides-wrapper" {
		t.Errorf("root id: got %q", c.RootID)
	}
	if c.ViewportWidth != 1280 || c.ViewportHeight != 720 {
		t.Errorf("viewport: got %dx%d, want 1280x720", c.ViewportWidth, c.ViewportHeight)
	}
	if c.PageTimeout != 300*time.Second || c.RootWait != 60*time.Second {
		t.Errorf("timeouts: got %v / %v", c.PageTimeout, c.RootWait)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(env(map[string]string{
		"TEMP_DIRECTORY":            "/var/tmp/app",
		"PUPPETEER_EXECUTABLE_PATH": "/usr/bin/chromium",
		"SLIDESCENE_BASE_URL":       "http://deck:8080/view?id=%s",
		"SLIDESCENE_RASTER_SCALE":   "2",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if c.OutputDir != filepath.Join("/var/tmp/app", "screenshots") {
		t.Errorf("output dir: got %q", c.OutputDir)
	}
	if c.ChromePath != "/usr/bin/chromium" {
		t.Errorf("chrome path: got %q", c.ChromePath)
	}
	if got := c.PresentationURL("abc"); got != "http://deck:8080/view?id=abc" {
		t.Errorf("url: got %q", got)
	}
	if c.RasterScale != 2 {
		t.Errorf("raster scale: got %v", c.RasterScale)
	}
}

func TestApplyEnv_Precedence(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(env(map[string]string{
		"TEMP_DIRECTORY":            "/tmp/a",
		"SLIDESCENE_OUTPUT_DIR":     "/srv/out",
		"PUPPETEER_EXECUTABLE_PATH": "/a/chrome",
		"CHROME_PATH":               "/b/chrome",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if c.OutputDir != "/srv/out" {
		t.Errorf("output dir: got %q, want /srv/out", c.OutputDir)
	}
	if c.ChromePath != "/b/chrome" {
		t.Errorf("chrome path: got %q, want /b/chrome", c.ChromePath)
	}
}

func TestApplyEnv_BadScale(t *testing.T) {
	c := Default()
	if err := c.ApplyEnv(env(map[string]string{"SLIDESCENE_RASTER_SCALE": "big"})); err == nil {
		t.Error("expected error for non-numeric scale")
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidescene.yaml")
	data := "backend: static\nroot_id: deck\nviewport_width: 1920\nviewport_height: 1080\nroot_wait: 5s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Backend != "static" || c.RootID != "deck" {
		t.Errorf("got backend=%q root=%q", c.Backend, c.RootID)
	}
	if c.ViewportWidth != 1920 || c.ViewportHeight != 1080 {
		t.Errorf("viewport: got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.RootWait != 5*time.Second {
		t.Errorf("root wait: got %v", c.RootWait)
	}
	if c.NoteAttribute != "data-speaker-note" {
		t.Errorf("unset keys keep defaults, got note attribute %q", c.NoteAttribute)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.OutputDir = " "
	c.ViewportWidth = 0
	err := c.Validate()
	if !errors.Is(err, extract.ErrNoOutputDir) {
		t.Errorf("got %v, want ErrNoOutputDir", err)
	}

	c = Default()
	c.BaseURL = "http://localhost/deck"
	if err := c.Validate(); err == nil {
		t.Error("template without placeholder should fail")
	}
}
