package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvPipelineHighThreshold = "DOCFLOW_PIPELINE_HIGH_THRESHOLD"
	EnvPipelineLowThreshold  = "DOCFLOW_PIPELINE_LOW_THRESHOLD"
)

// PipelineConfig holds the confidence thresholds that drive routing.
type PipelineConfig struct {
	HighThreshold float64 `toml:"high_threshold"`
	LowThreshold  float64 `toml:"low_threshold"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.HighThreshold != 0 {
		c.HighThreshold = overlay.HighThreshold
	}
	if overlay.LowThreshold != 0 {
		c.LowThreshold = overlay.LowThreshold
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.HighThreshold == 0 {
		c.HighThreshold = 0.8
	}
	if c.LowThreshold == 0 {
		c.LowThreshold = 0.5
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineHighThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.HighThreshold = f
		}
	}
	if v := os.Getenv(EnvPipelineLowThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.LowThreshold = f
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.HighThreshold <= 0 || c.HighThreshold > 1 {
		return fmt.Errorf("invalid high_threshold: %v", c.HighThreshold)
	}
	if c.LowThreshold <= 0 || c.LowThreshold > 1 {
		return fmt.Errorf("invalid low_threshold: %v", c.LowThreshold)
	}
	if c.LowThreshold >= c.HighThreshold {
		return fmt.Errorf("low_threshold %v must be below high_threshold %v",
			c.LowThreshold, c.HighThreshold)
	}
	return nil
}
