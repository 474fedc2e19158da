// Package config loads extraction settings from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/slidescene/internal/extract"
)

// Config holds every tunable of an extraction run.
type Config struct {
	// Backend names the dom backend: "chrome" or "static".
	Backend string `yaml:"backend"`
	// BaseURL is the presentation page template; %s is the presentation id.
	BaseURL string `yaml:"base_url"`
	// ChromePath is the browser executable.
	ChromePath string `yaml:"chrome_path"`
	// OutputDir receives captured element images.
	OutputDir string `yaml:"output_dir"`

	RootID        string `yaml:"root_id"`
	NoteAttribute string `yaml:"note_attribute"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	PageTimeout time.Duration `yaml:"page_timeout"`
	RootWait    time.Duration `yaml:"root_wait"`
	Settle      time.Duration `yaml:"settle"`

	// RasterScale multiplies the size of rasterized vector graphics.
	RasterScale float64 `yaml:"raster_scale"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:        "chrome",
		BaseURL:        "http://localhost:3000/pdf-maker?id=%s",
		OutputDir:      filepath.Join(os.TempDir(), "slidescene", "screenshots"),
		RootID:         "presentation-slides-wrapper",
		NoteAttribute:  "data-speaker-note",
		ViewportWidth:  1280,
		ViewportHeight: 720,
		PageTimeout:    300 * time.Second,
		RootWait:       60 * time.Second,
		Settle:         2 * time.Second,
		RasterScale:    1,
	}
}

// Load starts from Default, overlays the YAML file at path (skipped when
// path is empty) and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment settings read through lookup:
//
//	TEMP_DIRECTORY             output dir becomes $TEMP_DIRECTORY/screenshots
//	SLIDESCENE_OUTPUT_DIR      output dir, wins over TEMP_DIRECTORY
//	PUPPETEER_EXECUTABLE_PATH  browser executable
//	CHROME_PATH                browser executable, wins over the above
//	SLIDESCENE_BASE_URL        presentation page template
//	SLIDESCENE_BACKEND         dom backend
//	SLIDESCENE_RASTER_SCALE    raster scale factor
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TEMP_DIRECTORY"); ok && v != "" {
		c.OutputDir = filepath.Join(v, "screenshots")
	}
	if v, ok := lookup("SLIDESCENE_OUTPUT_DIR"); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := lookup("PUPPETEER_EXECUTABLE_PATH"); ok && v != "" {
		c.ChromePath = v
	}
	if v, ok := lookup("CHROME_PATH"); ok && v != "" {
		c.ChromePath = v
	}
	if v, ok := lookup("SLIDESCENE_BASE_URL"); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup("SLIDESCENE_BACKEND"); ok && v != "" {
		c.Backend = v
	}
	if v, ok := lookup("SLIDESCENE_RASTER_SCALE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SLIDESCENE_RASTER_SCALE: %w", err)
		}
		c.RasterScale = f
	}
	return nil
}

// Validate reports settings that would make a run fail.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, extract.ErrNoOutputDir)
	}
	if c.RootID == "" {
		errs = append(errs, errors.New("root_id is empty"))
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid viewport %dx%d", c.ViewportWidth, c.ViewportHeight))
	}
	if c.RasterScale <= 0 {
		errs = append(errs, fmt.Errorf("raster_scale must be positive, got %v", c.RasterScale))
	}
	if !strings.Contains(c.BaseURL, "%s") {
		errs = append(errs, fmt.Errorf("base_url %q has no %%s placeholder", c.BaseURL))
	}
	return errors.Join(errs...)
}

// PresentationURL fills the page template with id.
func (c Config) PresentationURL(id string) string {
	return fmt.Sprintf(c.BaseURL, id)
}
