package config_test

import (
	"slices"
	"testing"
	"time"

	"github.com/docflow/docflow/internal/config"
)

func TestJobsConfigDefaults(t *testing.T) {
	var cfg config.JobsConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.MaxConcurrent != 5 {
		t.Errorf("max_concurrent = %d, want 5", cfg.MaxConcurrent)
	}
	want := []string{".pdf", ".txt", ".doc", ".docx"}
	if !slices.Equal(cfg.AllowedExtensions, want) {
		t.Errorf("allowed_extensions = %v, want %v", cfg.AllowedExtensions, want)
	}
	if cfg.ProcessingTimeoutDuration() != 5*time.Minute {
		t.Errorf("processing_timeout = %v, want 5m", cfg.ProcessingTimeoutDuration())
	}
}

func TestJobsConfigEnvOverrides(t *testing.T) {
	t.Setenv("DOCFLOW_JOBS_MAX_CONCURRENT", "12")
	t.Setenv("DOCFLOW_JOBS_ALLOWED_EXTENSIONS", ".txt, .md")
	t.Setenv("DOCFLOW_JOBS_PROCESSING_TIMEOUT", "90s")

	var cfg config.JobsConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.MaxConcurrent != 12 {
		t.Errorf("max_concurrent = %d, want 12", cfg.MaxConcurrent)
	}
	if !slices.Equal(cfg.AllowedExtensions, []string{".txt", ".md"}) {
		t.Errorf("allowed_extensions = %v, want [.txt .md]", cfg.AllowedExtensions)
	}
	if cfg.ProcessingTimeoutDuration() != 90*time.Second {
		t.Errorf("processing_timeout = %v, want 90s", cfg.ProcessingTimeoutDuration())
	}
}

func TestJobsConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.JobsConfig
	}{
		{"negative concurrency", config.JobsConfig{MaxConcurrent: -1}},
		{"extension without dot", config.JobsConfig{AllowedExtensions: []string{"txt"}}},
		{"bad timeout", config.JobsConfig{ProcessingTimeout: "sometime"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestJobsConfigMerge(t *testing.T) {
	base := config.JobsConfig{
		MaxConcurrent:     5,
		AllowedExtensions: []string{".txt"},
		ProcessingTimeout: "5m",
	}
	overlay := config.JobsConfig{MaxConcurrent: 10}

	base.Merge(&overlay)

	if base.MaxConcurrent != 10 {
		t.Errorf("max_concurrent = %d, want 10", base.MaxConcurrent)
	}
	if !slices.Equal(base.AllowedExtensions, []string{".txt"}) {
		t.Errorf("allowed_extensions = %v, zero overlay should not replace", base.AllowedExtensions)
	}
	if base.ProcessingTimeout != "5m" {
		t.Errorf("processing_timeout = %s, zero overlay should not replace", base.ProcessingTimeout)
	}
}

func TestPipelineConfigDefaults(t *testing.T) {
	var cfg config.PipelineConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.HighThreshold != 0.8 {
		t.Errorf("high_threshold = %v, want 0.8", cfg.HighThreshold)
	}
	if cfg.LowThreshold != 0.5 {
		t.Errorf("low_threshold = %v, want 0.5", cfg.LowThreshold)
	}
}

func TestPipelineConfigEnvOverrides(t *testing.T) {
	t.Setenv("DOCFLOW_PIPELINE_HIGH_THRESHOLD", "0.9")
	t.Setenv("DOCFLOW_PIPELINE_LOW_THRESHOLD", "0.4")

	var cfg config.PipelineConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.HighThreshold != 0.9 || cfg.LowThreshold != 0.4 {
		t.Errorf("thresholds = %v/%v, want 0.9/0.4", cfg.HighThreshold, cfg.LowThreshold)
	}
}

func TestPipelineConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PipelineConfig
	}{
		{"high above one", config.PipelineConfig{HighThreshold: 1.2, LowThreshold: 0.5}},
		{"low above high", config.PipelineConfig{HighThreshold: 0.5, LowThreshold: 0.8}},
		{"bands equal", config.PipelineConfig{HighThreshold: 0.6, LowThreshold: 0.6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPIConfigDefaults(t *testing.T) {
	var cfg config.APIConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.BasePath != "/api" {
		t.Errorf("base_path = %s, want /api", cfg.BasePath)
	}
	if cfg.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("max_upload_size = %d, want 50MB", cfg.MaxUploadSizeBytes())
	}
}

func TestServerConfigAddr(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 9000}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr = %s, want 127.0.0.1:9000", cfg.Addr())
	}
}

func TestServerConfigValidation(t *testing.T) {
	cfg := config.ServerConfig{Port: 70000}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}
