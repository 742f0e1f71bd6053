package middleware

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{"valid uuid", "6fa1f2f0-9c8e-4a6e-b0d3-1a2b3c4d5e6f", "6fa1f2f0-9c8e-4a6e-b0d3-1a2b3c4d5e6f", false},
		{"trims whitespace", "  6fa1f2f0-9c8e-4a6e-b0d3-1a2b3c4d5e6f  ", "6fa1f2f0-9c8e-4a6e-b0d3-1a2b3c4d5e6f", false},
		{"empty", "", "", true},
		{"not a uuid", "video-123", "", true},
		{"sql injection", "a'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateID(tt.input, "videoId")
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.wantID {
				t.Errorf("got %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestValidateLang(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"two letter", "ko", "ko", false},
		{"with region", "en-US", "en-US", false},
		{"trims whitespace", " ko ", "ko", false},
		{"empty", "", "", true},
		{"numeric", "k0", "", true},
		{"too long", "abcdefghijk", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateLang(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if got, errMsg := ValidateTitle("  final cut  "); got != "final cut" || errMsg != "" {
		t.Errorf("got %q / %q", got, errMsg)
	}
	if got, errMsg := ValidateTitle(""); got != "" || errMsg != "" {
		t.Errorf("empty title must be allowed, got %q / %q", got, errMsg)
	}
	if _, errMsg := ValidateTitle(strings.Repeat("x", MaxTitleLen+1)); errMsg == "" {
		t.Error("overlong title must be rejected")
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "clip.mp4", false},
		{"korean legacy", "[타로] 2026-01-15_[김태희] 신년운세_v2.0.mp4", false},
		{"empty", "", true},
		{"path traversal", "../secret.mp4", true},
		{"backslash", "dir\\clip.mp4", true},
		{"too long", strings.Repeat("x", MaxFilenameLen+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateFilename(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}
