package stream

import (
	"encoding/base64"
	"strings"
)

// UploadMetadata encodes the resumable-upload protocol's metadata
// header: comma-joined "key base64(value)" pairs. It exists so the
// rest of the ingestion path never touches the wire format.
type UploadMetadata struct {
	keys   []string
	values map[string]string
}

// NewUploadMetadata returns an empty metadata set.
func NewUploadMetadata() *UploadMetadata {
	return &UploadMetadata{values: make(map[string]string)}
}

// Set adds or replaces a pair. Insertion order is preserved on encode.
func (m *UploadMetadata) Set(key, value string) *UploadMetadata {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Encode renders the header value. Keys with empty values are emitted
// as bare flags per the protocol.
func (m *UploadMetadata) Encode() string {
	var b strings.Builder
	for i, key := range m.keys {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(key)
		if v := m.values[key]; v != "" {
			b.WriteString(" ")
			b.WriteString(base64.StdEncoding.EncodeToString([]byte(v)))
		}
	}
	return b.String()
}
