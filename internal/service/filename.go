package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/hamkkebom/Ask-the-Stars-sub001/pkg/mediakey"
)

// Fallbacks applied when a filename does not follow the legacy naming
// convention. The Korean defaults match the historical catalog values.
const (
	DefaultCategory     = "기타"
	DefaultCounselor    = "대상없음"
	DefaultVersionLabel = "v1.0"
)

// legacyNameRe matches "[Category] Date_[Counselor] Title.ext".
var legacyNameRe = regexp.MustCompile(`^\[(.+?)\]\s*(.+?)_\[(.+?)\]\s*(.+)$`)

// versionSuffixRe extracts a trailing "_vX.Y" from a title.
var versionSuffixRe = regexp.MustCompile(`^(.+)_([vV]\d+\.\d+)$`)

var dateLayouts = []string{"2006-01-02", "2006.01.02", "2006/01/02"}

// ParsedMeta is the fully-populated result of parsing a legacy
// filename. Every field has a usable value even for non-matching names.
type ParsedMeta struct {
	Category     string
	Counselor    string
	Title        string
	VersionLabel string
	StartedAt    time.Time
}

// ParseLegacyFilename decodes the "[Category] Date_[Counselor]
// Title_vX.Y.ext" convention. Non-matching names fall back to defaults
// with the extension-stripped filename as title; a trailing version
// suffix is honored either way. now anchors the StartedAt fallback.
func ParseLegacyFilename(name string, now time.Time) ParsedMeta {
	meta := ParsedMeta{
		Category:     DefaultCategory,
		Counselor:    DefaultCounselor,
		Title:        mediakey.BaseName(name),
		VersionLabel: DefaultVersionLabel,
		StartedAt:    now,
	}

	match := legacyNameRe.FindStringSubmatch(name)
	if match == nil {
		return meta
	}

	meta.Category = match[1]
	meta.Counselor = match[3]
	rawTitle := mediakey.BaseName(match[4])

	if v := versionSuffixRe.FindStringSubmatch(rawTitle); v != nil {
		meta.Title = strings.TrimSpace(v[1])
		meta.VersionLabel = v[2]
	} else {
		meta.Title = strings.TrimSpace(rawTitle)
	}

	dateStr := strings.TrimSpace(match[2])
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			meta.StartedAt = t
			break
		}
	}

	return meta
}
