// Package config loads the generator tuning file. The schema matches the
// /api/config endpoint so the same JSON serves both startup configuration
// and runtime inspection. Fields are pointers so a partial file only
// overrides what it names; the Get* methods supply defaults for the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for fields not present in the config file.
const (
	DefaultColorVariationCutoff = 6
	DefaultPreviewFrameCap      = 100
	DefaultFOVYDegrees          = 39.6
	DefaultImageWidth           = 1024
	DefaultImageHeight          = 1024
	DefaultKeypointCount        = 128
)

// Config is the root tuning configuration.
type Config struct {
	// Annotation params
	ColorVariationCutoff *int `json:"color_variation_cutoff,omitempty"`

	// Camera params
	FOVYDegrees *float64 `json:"fovy_degrees,omitempty"`
	ImageWidth  *int     `json:"image_width,omitempty"`
	ImageHeight *int     `json:"image_height,omitempty"`

	// Keypoint params
	KeypointCount *int `json:"keypoint_count,omitempty"`
	KeypointSeed  *int `json:"keypoint_seed,omitempty"`

	// Preview params
	PreviewFrameCap *int `json:"preview_frame_cap,omitempty"`
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads and validates a JSON config file. Omitted fields keep their
// defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values that would silently corrupt annotations.
func (c *Config) Validate() error {
	if c.ColorVariationCutoff != nil && *c.ColorVariationCutoff <= 0 {
		return fmt.Errorf("color_variation_cutoff must be positive, got %d", *c.ColorVariationCutoff)
	}
	if c.FOVYDegrees != nil && (*c.FOVYDegrees <= 0 || *c.FOVYDegrees >= 180) {
		return fmt.Errorf("fovy_degrees must be in (0, 180), got %g", *c.FOVYDegrees)
	}
	if c.ImageWidth != nil && *c.ImageWidth <= 0 {
		return fmt.Errorf("image_width must be positive, got %d", *c.ImageWidth)
	}
	if c.ImageHeight != nil && *c.ImageHeight <= 0 {
		return fmt.Errorf("image_height must be positive, got %d", *c.ImageHeight)
	}
	if c.KeypointCount != nil && *c.KeypointCount <= 0 {
		return fmt.Errorf("keypoint_count must be positive, got %d", *c.KeypointCount)
	}
	if c.KeypointSeed != nil && *c.KeypointSeed < 0 {
		return fmt.Errorf("keypoint_seed must be non-negative, got %d", *c.KeypointSeed)
	}
	if c.PreviewFrameCap != nil && *c.PreviewFrameCap <= 0 {
		return fmt.Errorf("preview_frame_cap must be positive, got %d", *c.PreviewFrameCap)
	}
	return nil
}

// GetColorVariationCutoff returns the mask matching distance.
func (c *Config) GetColorVariationCutoff() int {
	if c.ColorVariationCutoff != nil {
		return *c.ColorVariationCutoff
	}
	return DefaultColorVariationCutoff
}

// GetFOVYDegrees returns the camera's vertical field of view.
func (c *Config) GetFOVYDegrees() float64 {
	if c.FOVYDegrees != nil {
		return *c.FOVYDegrees
	}
	return DefaultFOVYDegrees
}

// GetImageWidth returns the render width in pixels.
func (c *Config) GetImageWidth() int {
	if c.ImageWidth != nil {
		return *c.ImageWidth
	}
	return DefaultImageWidth
}

// GetImageHeight returns the render height in pixels.
func (c *Config) GetImageHeight() int {
	if c.ImageHeight != nil {
		return *c.ImageHeight
	}
	return DefaultImageHeight
}

// GetKeypointCount returns how many keypoints to generate per mesh.
func (c *Config) GetKeypointCount() int {
	if c.KeypointCount != nil {
		return *c.KeypointCount
	}
	return DefaultKeypointCount
}

// GetKeypointSeed returns the farthest-point-sampling seed vertex.
func (c *Config) GetKeypointSeed() int {
	if c.KeypointSeed != nil {
		return *c.KeypointSeed
	}
	return 0
}

// GetPreviewFrameCap returns the bake preview frame cap.
func (c *Config) GetPreviewFrameCap() int {
	if c.PreviewFrameCap != nil {
		return *c.PreviewFrameCap
	}
	return DefaultPreviewFrameCap
}
