package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

type fakePlaybackCatalog struct {
	videos map[string]*model.Video
	specs  map[string]*model.TechnicalSpec
	titles map[string]string
	reads  int
}

func newFakePlaybackCatalog() *fakePlaybackCatalog {
	return &fakePlaybackCatalog{
		videos: make(map[string]*model.Video),
		specs:  make(map[string]*model.TechnicalSpec),
		titles: make(map[string]string),
	}
}

func (f *fakePlaybackCatalog) GetPlayback(_ context.Context, videoID string) (*model.Video, *model.TechnicalSpec, string, error) {
	f.reads++
	v, ok := f.videos[videoID]
	if !ok {
		return nil, nil, "", pgx.ErrNoRows
	}
	return v, f.specs[videoID], f.titles[videoID], nil
}

type fakeSigner struct {
	token string
}

func (f *fakeSigner) IssuePlaybackToken(string) string { return f.token }

type fakeViews struct {
	count int
	calls int
}

func (f *fakeViews) FetchViewCount(context.Context, string) int {
	f.calls++
	return f.count
}

func seedPlayback(catalog *fakePlaybackCatalog, videoID, uid string) {
	catalog.videos[videoID] = &model.Video{
		ID: videoID, ProjectID: "proj-1", VersionLabel: "v1.0", Status: model.VideoStatusFinal,
	}
	spec := &model.TechnicalSpec{ID: "spec-1", VideoID: videoID, Format: "mp4"}
	if uid != "" {
		spec.StreamUID = &uid
	}
	catalog.specs[videoID] = spec
	catalog.titles[videoID] = "신년운세"
}

func TestPlaybackSignedURLs(t *testing.T) {
	catalog := newFakePlaybackCatalog()
	seedPlayback(catalog, "vid-1", "uid-1")
	views := &fakeViews{count: 42}
	svc := NewPlaybackService(catalog, &fakeSigner{token: "tok.abc.xyz"}, views, nil, "videos.hamkkebom.com", zerolog.Nop())

	info, err := svc.Get(context.Background(), "vid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if info.ManifestURL != "https://videos.hamkkebom.com/tok.abc.xyz/manifest/video.m3u8" {
		t.Errorf("manifest = %q", info.ManifestURL)
	}
	if info.ThumbnailURL != "https://videos.hamkkebom.com/tok.abc.xyz/thumbnails/thumbnail.jpg" {
		t.Errorf("thumbnail = %q", info.ThumbnailURL)
	}
	if info.Token != "tok.abc.xyz" {
		t.Errorf("token = %q", info.Token)
	}
	if info.Views != 42 {
		t.Errorf("views = %d, want 42", info.Views)
	}
	if info.Title != "신년운세" || info.VersionLabel != "v1.0" {
		t.Errorf("metadata = %q/%q", info.Title, info.VersionLabel)
	}
}

func TestPlaybackDegradesToUnsignedURLs(t *testing.T) {
	catalog := newFakePlaybackCatalog()
	seedPlayback(catalog, "vid-1", "uid-1")
	svc := NewPlaybackService(catalog, &fakeSigner{token: ""}, nil, nil, "videos.hamkkebom.com", zerolog.Nop())

	info, err := svc.Get(context.Background(), "vid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.Contains(info.ManifestURL, "/uid-1/manifest/") {
		t.Errorf("manifest = %q, want raw uid addressing", info.ManifestURL)
	}
	if info.Token != "" {
		t.Errorf("token = %q, want empty", info.Token)
	}
}

func TestPlaybackBlobOnlySpec(t *testing.T) {
	catalog := newFakePlaybackCatalog()
	seedPlayback(catalog, "vid-1", "")
	thumb := "https://pub.example.com/clip.jpg"
	catalog.specs["vid-1"].ThumbnailURL = &thumb
	views := &fakeViews{count: 7}
	svc := NewPlaybackService(catalog, &fakeSigner{token: "tok"}, views, nil, "videos.hamkkebom.com", zerolog.Nop())

	info, err := svc.Get(context.Background(), "vid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if info.ManifestURL != "" {
		t.Errorf("manifest = %q, want empty for blob-only media", info.ManifestURL)
	}
	if info.ThumbnailURL != thumb {
		t.Errorf("thumbnail = %q, want blob thumbnail", info.ThumbnailURL)
	}
	if views.calls != 0 {
		t.Errorf("view fetches = %d, want 0 without a stream uid", views.calls)
	}
}

func TestPlaybackUnknownVideo(t *testing.T) {
	svc := NewPlaybackService(newFakePlaybackCatalog(), nil, nil, nil, "videos.hamkkebom.com", zerolog.Nop())
	if _, err := svc.Get(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}
