package stream

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestUploadMetadata_Encode(t *testing.T) {
	m := NewUploadMetadata().
		Set("maxDurationSeconds", "14400").
		Set("creator", "user-1").
		Set("requiresignedurls", "true")

	encoded := m.Encode()
	pairs := strings.Split(encoded, ",")
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %q", len(pairs), encoded)
	}

	// Order preserved, values base64-encoded.
	want := []struct{ key, value string }{
		{"maxDurationSeconds", "14400"},
		{"creator", "user-1"},
		{"requiresignedurls", "true"},
	}
	for i, w := range want {
		key, b64, ok := strings.Cut(pairs[i], " ")
		if !ok || key != w.key {
			t.Errorf("pair %d = %q, want key %q", i, pairs[i], w.key)
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			t.Errorf("pair %d value not base64: %v", i, err)
			continue
		}
		if string(decoded) != w.value {
			t.Errorf("pair %d value = %q, want %q", i, decoded, w.value)
		}
	}
}

func TestUploadMetadata_EmptyValueIsBareFlag(t *testing.T) {
	m := NewUploadMetadata().Set("requiresignedurls", "")
	if got := m.Encode(); got != "requiresignedurls" {
		t.Errorf("Encode = %q, want bare flag", got)
	}
}

func TestUploadMetadata_SetReplaces(t *testing.T) {
	m := NewUploadMetadata().Set("creator", "a").Set("creator", "b")
	encoded := m.Encode()
	if strings.Count(encoded, "creator") != 1 {
		t.Errorf("duplicate key emitted: %q", encoded)
	}
	decoded, _ := base64.StdEncoding.DecodeString(strings.Split(encoded, " ")[1])
	if string(decoded) != "b" {
		t.Errorf("value = %q, want b", decoded)
	}
}
