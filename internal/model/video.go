package model

import "time"

// Video lifecycle statuses. DRAFT videos are awaiting encoding; the
// webhook reconciler moves them to FINAL or FAILED.
const (
	VideoStatusDraft  = "DRAFT"
	VideoStatusFinal  = "FINAL"
	VideoStatusFailed = "FAILED"
)

// Video represents one deliverable video owned by a project.
type Video struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"projectId"`
	VersionLabel string     `json:"versionLabel"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// TechnicalSpec is the 1:1 media descriptor for a video. A spec always
// carries a blob key, a stream UID, or both — never neither.
type TechnicalSpec struct {
	ID           string  `json:"id"`
	VideoID      string  `json:"videoId"`
	Filename     string  `json:"filename"`
	BlobKey      *string `json:"blobKey,omitempty"`
	StreamUID    *string `json:"streamUid,omitempty"`
	FileSize     *int64  `json:"fileSize,omitempty"`
	Format       string  `json:"format"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
}

// HasMedia reports whether the spec references any playable media.
func (s *TechnicalSpec) HasMedia() bool {
	return (s.BlobKey != nil && *s.BlobKey != "") || (s.StreamUID != nil && *s.StreamUID != "")
}

// PlaybackInfo is the API response for a playback request.
type PlaybackInfo struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	VersionLabel string `json:"versionLabel"`
	Status       string `json:"status"`
	ManifestURL  string `json:"manifestUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Token        string `json:"token,omitempty"`
	Views        int    `json:"views"`
}
