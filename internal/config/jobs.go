package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvJobsMaxConcurrent     = "DOCFLOW_JOBS_MAX_CONCURRENT"
	EnvJobsAllowedExtensions = "DOCFLOW_JOBS_ALLOWED_EXTENSIONS"
	EnvJobsProcessingTimeout = "DOCFLOW_JOBS_PROCESSING_TIMEOUT"
)

// JobsConfig holds job admission and processing parameters.
type JobsConfig struct {
	MaxConcurrent     int      `toml:"max_concurrent"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	ProcessingTimeout string   `toml:"processing_timeout"`
}

// ProcessingTimeoutDuration returns ProcessingTimeout as a time.Duration.
func (c *JobsConfig) ProcessingTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ProcessingTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *JobsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *JobsConfig) Merge(overlay *JobsConfig) {
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
	if overlay.AllowedExtensions != nil {
		c.AllowedExtensions = overlay.AllowedExtensions
	}
	if overlay.ProcessingTimeout != "" {
		c.ProcessingTimeout = overlay.ProcessingTimeout
	}
}

func (c *JobsConfig) loadDefaults() {
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 5
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = []string{".pdf", ".txt", ".doc", ".docx"}
	}
	if c.ProcessingTimeout == "" {
		c.ProcessingTimeout = "5m"
	}
}

func (c *JobsConfig) loadEnv() {
	if v := os.Getenv(EnvJobsMaxConcurrent); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv(EnvJobsAllowedExtensions); v != "" {
		parts := strings.Split(v, ",")
		exts := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				exts = append(exts, trimmed)
			}
		}
		c.AllowedExtensions = exts
	}
	if v := os.Getenv(EnvJobsProcessingTimeout); v != "" {
		c.ProcessingTimeout = v
	}
}

func (c *JobsConfig) validate() error {
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("invalid max_concurrent: %d", c.MaxConcurrent)
	}
	for _, ext := range c.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q: must start with a dot", ext)
		}
	}
	if _, err := time.ParseDuration(c.ProcessingTimeout); err != nil {
		return fmt.Errorf("invalid processing_timeout: %w", err)
	}
	return nil
}
