package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Проверяем значения по умолчанию
	if cfg.Height != 250 {
		t.Errorf("Height = %d, want 250", cfg.Height)
	}

	if cfg.ThumbQuality != 85 {
		t.Errorf("ThumbQuality = %d, want 85", cfg.ThumbQuality)
	}

	if cfg.MaxDimension != 3000 {
		t.Errorf("MaxDimension = %d, want 3000", cfg.MaxDimension)
	}

	if cfg.WebQuality != 80 {
		t.Errorf("WebQuality = %d, want 80", cfg.WebQuality)
	}

	if cfg.SourceDir != "images" || cfg.ThumbsDir != "thumbs" || cfg.BackupDir != "images_backup" {
		t.Errorf("dirs = %q %q %q, want images thumbs images_backup", cfg.SourceDir, cfg.ThumbsDir, cfg.BackupDir)
	}

	if len(cfg.Extensions) == 0 {
		t.Error("Extensions should not be empty by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", modify: func(c *Config) {}, wantErr: false},
		{name: "missing source dir", modify: func(c *Config) { c.SourceDir = "" }, wantErr: true},
		{name: "missing thumbs dir", modify: func(c *Config) { c.ThumbsDir = "" }, wantErr: true},
		{name: "missing backup dir", modify: func(c *Config) { c.BackupDir = "" }, wantErr: true},
		{name: "no extensions", modify: func(c *Config) { c.Extensions = nil }, wantErr: true},
		{name: "zero height", modify: func(c *Config) { c.Height = 0 }, wantErr: true},
		{name: "zero max dimension", modify: func(c *Config) { c.MaxDimension = 0 }, wantErr: true},
		{name: "thumb quality low", modify: func(c *Config) { c.ThumbQuality = 0 }, wantErr: true},
		{name: "web quality high", modify: func(c *Config) { c.WebQuality = 101 }, wantErr: true},
		{name: "quality bounds", modify: func(c *Config) { c.ThumbQuality, c.WebQuality = 1, 100 }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere")

	cfg := DefaultConfig()
	cfg.Root = "/srv/gallery"

	if got, want := cfg.SourcePath(), filepath.Join("/srv/gallery", "images"); got != want {
		t.Errorf("SourcePath() = %q, want %q", got, want)
	}
	if got, want := cfg.ThumbsPath(), filepath.Join("/srv/gallery", "thumbs"); got != want {
		t.Errorf("ThumbsPath() = %q, want %q", got, want)
	}
	if got := cfg.Resolve(abs); got != abs {
		t.Errorf("Resolve(abs) = %q, want %q", got, abs)
	}

	cfg.Root = ""
	if got := cfg.BackupPath(); got != "images_backup" {
		t.Errorf("BackupPath() with empty root = %q, want images_backup", got)
	}
}

func TestConfig_HasInputExtension(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		ext  string
		want bool
	}{
		{"jpg", true},
		{".jpeg", true},
		{"JPG", true},  // case insensitive
		{"JPEG", true}, // case insensitive
		{".JpEg", true},
		{"png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := cfg.HasInputExtension(tt.ext); got != tt.want {
				t.Errorf("HasInputExtension(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}
