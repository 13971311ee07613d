// Package config loads the optional gtd.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"gtd-cli/internal/platform"
)

const FileName = "gtd.yaml"

// Config represents the optional gtd.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Camera  CameraConfig  `yaml:"camera"`
	Library LibraryConfig `yaml:"library"`
	Launch  LaunchConfig  `yaml:"launch"`
	Log     LogConfig     `yaml:"log"`
}

type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

type CameraConfig struct {
	// Command is run to capture a photo. "{out}" is replaced with the output
	// path; without it the path is appended.
	Command string `yaml:"command,omitempty"`
}

type LibraryConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

type LaunchConfig struct {
	Quality       *float64 `yaml:"quality,omitempty"`
	AllowsEditing *bool    `yaml:"allows_editing,omitempty"`
	Aspect        string   `yaml:"aspect,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Resolved contains configuration with defaults applied.
type Resolved struct {
	Path          string
	AppName       string
	CameraCommand string
	LibraryDir    string
	Launch        platform.LaunchOptions
	LogLevel      string
}

// Dir returns where gtd.yaml is looked up: GTD_CONFIG_DIR, else the workspace dir.
func Dir(workspaceDir string) string {
	if v := strings.TrimSpace(os.Getenv("GTD_CONFIG_DIR")); v != "" {
		return v
	}
	return workspaceDir
}

// LoadOptional reads gtd.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads gtd.yaml (if present) and applies defaults and env overrides.
func Resolve(workspaceDir string) (*Resolved, error) {
	dir := Dir(workspaceDir)
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Path:          filepath.Join(dir, FileName),
		AppName:       strings.TrimSpace(cfg.App.Name),
		CameraCommand: strings.TrimSpace(cfg.Camera.Command),
		LibraryDir:    platform.LibraryDir(cfg.Library.Dir),
		Launch:        platform.DefaultLaunchOptions(),
		LogLevel:      strings.TrimSpace(cfg.Log.Level),
	}
	if r.AppName == "" {
		r.AppName = platform.DefaultAppName
	}
	if r.CameraCommand == "" {
		r.CameraCommand = DefaultCameraCommand(runtime.GOOS)
	}
	if q := cfg.Launch.Quality; q != nil {
		if *q <= 0 || *q > 1 {
			return nil, fmt.Errorf("launch.quality must be in (0, 1], got %v", *q)
		}
		r.Launch.Quality = *q
	}
	if e := cfg.Launch.AllowsEditing; e != nil {
		r.Launch.AllowsEditing = *e
	}
	if s := strings.TrimSpace(cfg.Launch.Aspect); s != "" {
		a, err := ParseAspect(s)
		if err != nil {
			return nil, err
		}
		r.Launch.Aspect = a
	}
	if v := strings.TrimSpace(os.Getenv("GTD_LOG_LEVEL")); v != "" {
		r.LogLevel = v
	}
	if r.LogLevel == "" {
		r.LogLevel = "info"
	}
	return r, nil
}

// DefaultCameraCommand is the capture command used when gtd.yaml sets none.
func DefaultCameraCommand(goos string) string {
	switch goos {
	case "darwin":
		return "imagesnap -q {out}"
	case "linux":
		return "fswebcam --no-banner -r 1280x720 {out}"
	default:
		return ""
	}
}

// ParseAspect parses "W:H".
func ParseAspect(s string) (platform.Aspect, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return platform.Aspect{}, fmt.Errorf("invalid aspect %q (expected W:H)", s)
	}
	var a platform.Aspect
	if _, err := fmt.Sscanf(w+" "+h, "%d %d", &a.W, &a.H); err != nil || !a.Valid() {
		return platform.Aspect{}, fmt.Errorf("invalid aspect %q (expected W:H)", s)
	}
	return a, nil
}
