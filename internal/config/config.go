package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iptsd/iptsd-core/internal/security"
)

// DefaultConfigPath is a conventional location for a tuning file.
// Nothing in this package reads it; the default pipeline parameters are
// the values the Get* accessors return for unset fields.
const DefaultConfigPath = "config/iptsd.defaults.json"

// HysteresisBand is a (low, high) threshold pair for the Stabilizer's
// dead-band/break-band rule. A nil *HysteresisBand disables
// the corresponding stage.
type HysteresisBand struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Config is the root configuration for the IPTS pipeline. Fields are
// optional pointers so a partial JSON document leaves the rest at their
// documented defaults; use Get* accessors rather than reading fields
// directly.
type Config struct {
	// Blob Detector
	ActivationThreshold        *float64 `json:"activation_threshold,omitempty"`
	ClusterMembershipThreshold *float64 `json:"cluster_membership_threshold,omitempty"`
	MinClusterSize             *int     `json:"min_cluster_size,omitempty"`
	OrientationNormalized      *bool    `json:"orientation_normalized,omitempty"`

	// Tracker
	MaxMovementPerFrame *float64 `json:"max_movement_per_frame,omitempty"`

	// Stabilizer
	TemporalWindow          *int             `json:"temporal_window,omitempty"`
	TemporalCheckingEnabled *bool            `json:"temporal_checking_enabled,omitempty"`
	SizeHysteresis          *HysteresisBand  `json:"size_hysteresis,omitempty"`
	PositionHysteresis      *HysteresisBand  `json:"position_hysteresis,omitempty"`
	OrientationHysteresis   *HysteresisBand  `json:"orientation_hysteresis,omitempty"`
	CircularAspectRatio     *float64         `json:"circular_aspect_ratio,omitempty"`
}

// EmptyConfig returns a Config with every field unset, so every Get*
// accessor returns its documented default. Use this for programmatic
// construction (e.g. in tests) rather than LoadConfig.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file and validates it.
func LoadConfig(path string) (*Config, error) {
	if err := validateConfigExtension(path); err != nil {
		return nil, err
	}
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// validateConfigExtension rejects config paths that escape the temp or
// working directory, or that don't name a .json file.
func validateConfigExtension(path string) error {
	if err := security.ValidateExportPath(path); err != nil {
		return fmt.Errorf("config path rejected: %w", err)
	}
	if ext := filepath.Ext(filepath.Clean(path)); ext != ".json" {
		return fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	return nil
}

// Validate rejects a hysteresis band with Hi < Lo, or a temporal window
// of zero while temporal checking is enabled; both are fatal at construction.
func (c *Config) Validate() error {
	for name, band := range map[string]*HysteresisBand{
		"size_hysteresis":        c.SizeHysteresis,
		"position_hysteresis":    c.PositionHysteresis,
		"orientation_hysteresis": c.OrientationHysteresis,
	} {
		if band == nil {
			continue
		}
		if band.Hi < band.Lo {
			return fmt.Errorf("%s: theta_hi (%f) < theta_lo (%f)", name, band.Hi, band.Lo)
		}
		if band.Lo < 0 || band.Hi < 0 {
			return fmt.Errorf("%s: thresholds must be non-negative", name)
		}
	}

	if c.TemporalWindow != nil && *c.TemporalWindow == 0 && c.GetTemporalCheckingEnabled() {
		return fmt.Errorf("temporal_window must be >= 1 when temporal checking is enabled, got 0")
	}
	if c.TemporalWindow != nil && *c.TemporalWindow < 0 {
		return fmt.Errorf("temporal_window must be non-negative, got %d", *c.TemporalWindow)
	}
	if c.MinClusterSize != nil && *c.MinClusterSize < 1 {
		return fmt.Errorf("min_cluster_size must be >= 1, got %d", *c.MinClusterSize)
	}
	if c.MaxMovementPerFrame != nil && *c.MaxMovementPerFrame <= 0 {
		return fmt.Errorf("max_movement_per_frame must be positive, got %f", *c.MaxMovementPerFrame)
	}
	if c.CircularAspectRatio != nil && *c.CircularAspectRatio < 1 {
		return fmt.Errorf("circular_aspect_ratio must be >= 1, got %f", *c.CircularAspectRatio)
	}
	return nil
}

// GetActivationThreshold returns the local-maxima activation threshold or its default.
func (c *Config) GetActivationThreshold() float64 {
	if c.ActivationThreshold == nil {
		return 0.1
	}
	return *c.ActivationThreshold
}

// GetClusterMembershipThreshold returns the flood-fill membership threshold or its default.
func (c *Config) GetClusterMembershipThreshold() float64 {
	if c.ClusterMembershipThreshold == nil {
		return c.GetActivationThreshold() * 0.5
	}
	return *c.ClusterMembershipThreshold
}

// GetMinClusterSize returns the minimum reportable cluster size or its default.
func (c *Config) GetMinClusterSize() int {
	if c.MinClusterSize == nil {
		return 3
	}
	return *c.MinClusterSize
}

// GetOrientationNormalized reports whether orientation is expressed as a
// normalized [0,1) fraction (true) or radians [0,π) (false). Default: radians.
func (c *Config) GetOrientationNormalized() bool {
	if c.OrientationNormalized == nil {
		return false
	}
	return *c.OrientationNormalized
}

// GetMaxMovementPerFrame returns the tracker's D_max gating distance or its default.
func (c *Config) GetMaxMovementPerFrame() float64 {
	if c.MaxMovementPerFrame == nil {
		return 0.2
	}
	return *c.MaxMovementPerFrame
}

// GetTemporalWindow returns the stabilizer's history window length N or its default.
func (c *Config) GetTemporalWindow() int {
	if c.TemporalWindow == nil {
		return 2
	}
	return *c.TemporalWindow
}

// GetTemporalCheckingEnabled reports whether the stable flag depends on
// history-window presence or is unconditionally true.
func (c *Config) GetTemporalCheckingEnabled() bool {
	if c.TemporalCheckingEnabled == nil {
		return true
	}
	return *c.TemporalCheckingEnabled
}

// GetSizeHysteresis returns the size dead-band/break-band pair, or nil if disabled.
func (c *Config) GetSizeHysteresis() *HysteresisBand {
	return c.SizeHysteresis
}

// GetPositionHysteresis returns the position dead-band/break-band pair, or nil if disabled.
func (c *Config) GetPositionHysteresis() *HysteresisBand {
	return c.PositionHysteresis
}

// GetOrientationHysteresis returns the orientation dead-band/break-band pair, or nil if disabled.
func (c *Config) GetOrientationHysteresis() *HysteresisBand {
	return c.OrientationHysteresis
}

// GetCircularAspectRatio returns the major/minor aspect-ratio threshold below
// which orientation is considered undefined, or its default.
func (c *Config) GetCircularAspectRatio() float64 {
	if c.CircularAspectRatio == nil {
		return 1.1
	}
	return *c.CircularAspectRatio
}
