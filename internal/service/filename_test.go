package service

import (
	"testing"
	"time"
)

func TestParseLegacyFilenameFull(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	meta := ParseLegacyFilename("[타로] 2026-01-15_[김태희] 신년운세_v2.0.mp4", now)

	if meta.Category != "타로" {
		t.Errorf("category = %q, want 타로", meta.Category)
	}
	if meta.Counselor != "김태희" {
		t.Errorf("counselor = %q, want 김태희", meta.Counselor)
	}
	if meta.Title != "신년운세" {
		t.Errorf("title = %q, want 신년운세", meta.Title)
	}
	if meta.VersionLabel != "v2.0" {
		t.Errorf("version = %q, want v2.0", meta.VersionLabel)
	}
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !meta.StartedAt.Equal(want) {
		t.Errorf("startedAt = %v, want %v", meta.StartedAt, want)
	}
}

func TestParseLegacyFilenameFallbacks(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	meta := ParseLegacyFilename("randomfile123.mp4", now)

	if meta.Category != DefaultCategory {
		t.Errorf("category = %q, want %q", meta.Category, DefaultCategory)
	}
	if meta.Counselor != DefaultCounselor {
		t.Errorf("counselor = %q, want %q", meta.Counselor, DefaultCounselor)
	}
	if meta.Title != "randomfile123" {
		t.Errorf("title = %q, want randomfile123", meta.Title)
	}
	if meta.VersionLabel != DefaultVersionLabel {
		t.Errorf("version = %q, want %q", meta.VersionLabel, DefaultVersionLabel)
	}
	if !meta.StartedAt.Equal(now) {
		t.Errorf("startedAt = %v, want fallback %v", meta.StartedAt, now)
	}
}

func TestParseLegacyFilenameNoVersionSuffix(t *testing.T) {
	meta := ParseLegacyFilename("[사주] 2025-12-01_[이민호] 연말결산.mov", time.Now())

	if meta.Title != "연말결산" {
		t.Errorf("title = %q, want 연말결산", meta.Title)
	}
	if meta.VersionLabel != DefaultVersionLabel {
		t.Errorf("version = %q, want %q", meta.VersionLabel, DefaultVersionLabel)
	}
}

func TestParseLegacyFilenameUnparsableDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	meta := ParseLegacyFilename("[타로] 언젠가_[김태희] 미래.mp4", now)

	if !meta.StartedAt.Equal(now) {
		t.Errorf("startedAt = %v, want fallback %v", meta.StartedAt, now)
	}
	if meta.Category != "타로" || meta.Counselor != "김태희" {
		t.Errorf("category/counselor = %q/%q, want 타로/김태희", meta.Category, meta.Counselor)
	}
}
