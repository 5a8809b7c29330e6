package formatting_test

import (
	"testing"

	"github.com/docflow/docflow/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "2048", 2048, false},
		{"bytes", "512B", 512, false},
		{"kilobytes", "4KB", 4 * 1024, false},
		{"megabytes", "50MB", 50 * 1024 * 1024, false},
		{"gigabytes", "1GB", 1024 * 1024 * 1024, false},
		{"lowercase", "25mb", 25 * 1024 * 1024, false},
		{"spaced", "10 MB", 10 * 1024 * 1024, false},
		{"padded", "  50MB  ", 50 * 1024 * 1024, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"bogus unit", "5QB", 0, true},
		{"unit only", "GB", 0, true},
		{"negative", "-1MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 900, 0, "900 B"},
		{"kilobytes", 2048, 0, "2 KB"},
		{"megabytes", 50 * 1024 * 1024, 0, "50 MB"},
		{"fractional", 1536 * 1024, 1, "1.5 MB"},
		{"negative precision clamps", 1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}
