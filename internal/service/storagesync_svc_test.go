package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/storage"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/stream"
)

type fakeBlobs struct {
	objects    []storage.Object
	presignErr error
}

func (f *fakeBlobs) ListAll(context.Context) ([]storage.Object, error) {
	return f.objects, nil
}

func (f *fakeBlobs) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://signed.example.com/" + key, nil
}

func (f *fakeBlobs) PublicURL(key string) string {
	return "https://pub.example.com/" + key
}

type fakeCatalog struct {
	known        map[string]struct{}
	triples      []model.TechnicalSpec
	tripleErrFor string
	missingThumb []model.TechnicalSpec
	forMigration []model.TechnicalSpec
	thumbnails   map[string]string
	streamUIDs   map[string]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		known:      make(map[string]struct{}),
		thumbnails: make(map[string]string),
		streamUIDs: make(map[string]string),
	}
}

func (f *fakeCatalog) AllBlobKeys(context.Context) (map[string]struct{}, error) {
	return f.known, nil
}

func (f *fakeCatalog) SpecsMissingThumbnail(context.Context) ([]model.TechnicalSpec, error) {
	return f.missingThumb, nil
}

func (f *fakeCatalog) SpecsForMigration(_ context.Context, limit int) ([]model.TechnicalSpec, error) {
	if len(f.forMigration) > limit {
		return f.forMigration[:limit], nil
	}
	return f.forMigration, nil
}

func (f *fakeCatalog) SetThumbnail(_ context.Context, specID, url string) error {
	f.thumbnails[specID] = url
	return nil
}

func (f *fakeCatalog) SetStreamUID(_ context.Context, specID, uid string) error {
	f.streamUIDs[specID] = uid
	return nil
}

func (f *fakeCatalog) CreateTriple(_ context.Context, _ model.Project, _ model.Video, spec model.TechnicalSpec) error {
	if f.tripleErrFor != "" && spec.BlobKey != nil && *spec.BlobKey == f.tripleErrFor {
		return errors.New("insert failed")
	}
	f.triples = append(f.triples, spec)
	if spec.BlobKey != nil {
		f.known[*spec.BlobKey] = struct{}{}
	}
	return nil
}

type fakeLookups struct{}

func (fakeLookups) UpsertCategory(_ context.Context, name string) (string, error) {
	return "cat-" + name, nil
}

func (fakeLookups) UpsertCounselor(_ context.Context, name string) (string, error) {
	return "coun-" + name, nil
}

func (fakeLookups) SystemOwner(context.Context, string) (string, error) {
	return "owner-1", nil
}

type fakeCopier struct {
	calls int
	fail  bool
}

func (f *fakeCopier) CopyFromURL(_ context.Context, _ string, _ stream.CopyMeta) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("provider rejected")
	}
	return fmt.Sprintf("uid-%d", f.calls), nil
}

func newSyncService(blobs *fakeBlobs, catalog *fakeCatalog, copier mediaCopier) *SyncService {
	return NewSyncService(blobs, catalog, fakeLookups{}, copier, SyncConfig{
		OwnerEmail:   "system@hamkkebom.com",
		AvgMinutes:   30,
		MigrateBatch: 100,
	}, zerolog.Nop())
}

func TestSyncRegistersUntrackedVideos(t *testing.T) {
	mod := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	blobs := &fakeBlobs{objects: []storage.Object{
		{Key: "[타로] 2026-01-15_[김태희] 신년운세_v2.0.mp4", Size: 1024, LastModified: mod},
		{Key: "[타로] 2026-01-15_[김태희] 신년운세_v2.0.jpg", Size: 10, LastModified: mod},
		{Key: "notes.txt", Size: 5, LastModified: mod},
	}}
	catalog := newFakeCatalog()

	report, err := newSyncService(blobs, catalog, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.TotalInStorage != 3 || report.VideoFiles != 1 {
		t.Errorf("totals = %d/%d, want 3/1", report.TotalInStorage, report.VideoFiles)
	}
	if report.NewSynced != 1 || report.Failed != 0 {
		t.Errorf("newSynced/failed = %d/%d, want 1/0", report.NewSynced, report.Failed)
	}
	if len(catalog.triples) != 1 {
		t.Fatalf("triples = %d, want 1", len(catalog.triples))
	}

	spec := catalog.triples[0]
	if spec.Format != "mp4" {
		t.Errorf("format = %q, want mp4", spec.Format)
	}
	if spec.ThumbnailURL == nil || *spec.ThumbnailURL != "https://pub.example.com/[타로] 2026-01-15_[김태희] 신년운세_v2.0.jpg" {
		t.Errorf("thumbnail not paired: %v", spec.ThumbnailURL)
	}
	if report.EstimatedMinutes != 30 {
		t.Errorf("estimatedMinutes = %d, want 30", report.EstimatedMinutes)
	}
}

func TestSyncSkipsTrackedVideos(t *testing.T) {
	blobs := &fakeBlobs{objects: []storage.Object{
		{Key: "known.mp4", LastModified: time.Now()},
	}}
	catalog := newFakeCatalog()
	catalog.known["known.mp4"] = struct{}{}

	report, err := newSyncService(blobs, catalog, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.NewSynced != 0 || len(catalog.triples) != 0 {
		t.Errorf("tracked video was re-registered")
	}
	if len(report.Orphans) != 0 {
		t.Errorf("orphans = %v, want none", report.Orphans)
	}
}

func TestSyncIsolatesPerItemFailures(t *testing.T) {
	blobs := &fakeBlobs{objects: []storage.Object{
		{Key: "bad.mp4", LastModified: time.Now()},
		{Key: "good.mp4", LastModified: time.Now()},
	}}
	catalog := newFakeCatalog()
	catalog.tripleErrFor = "bad.mp4"

	report, err := newSyncService(blobs, catalog, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Failed != 1 || report.NewSynced != 1 {
		t.Errorf("failed/newSynced = %d/%d, want 1/1", report.Failed, report.NewSynced)
	}
}

func TestSyncConvergesOnSecondRun(t *testing.T) {
	blobs := &fakeBlobs{objects: []storage.Object{
		{Key: "a.mp4", LastModified: time.Now()},
		{Key: "b.mp4", LastModified: time.Now()},
	}}
	catalog := newFakeCatalog()
	svc := newSyncService(blobs, catalog, nil)

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.NewSynced != 2 {
		t.Fatalf("first run newSynced = %d, want 2", first.NewSynced)
	}

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.NewSynced != 0 || second.Failed != 0 {
		t.Errorf("second run newSynced/failed = %d/%d, want 0/0", second.NewSynced, second.Failed)
	}
}

func TestSyncBackfillsThumbnails(t *testing.T) {
	blobs := &fakeBlobs{objects: []storage.Object{
		{Key: "clip.jpg", LastModified: time.Now()},
	}}
	key := "clip.mp4"
	catalog := newFakeCatalog()
	catalog.known[key] = struct{}{}
	catalog.missingThumb = []model.TechnicalSpec{{ID: "spec-1", BlobKey: &key}}

	report, err := newSyncService(blobs, catalog, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.UpdatedThumbnails != 1 {
		t.Errorf("updatedThumbnails = %d, want 1", report.UpdatedThumbnails)
	}
	if got := catalog.thumbnails["spec-1"]; got != "https://pub.example.com/clip.jpg" {
		t.Errorf("thumbnail url = %q", got)
	}
}

func TestSyncMigratesBlobOnlySpecs(t *testing.T) {
	key := "legacy.mp4"
	catalog := newFakeCatalog()
	catalog.known[key] = struct{}{}
	catalog.forMigration = []model.TechnicalSpec{{ID: "spec-1", Filename: "legacy.mp4", BlobKey: &key}}
	copier := &fakeCopier{}

	report, err := newSyncService(&fakeBlobs{}, catalog, copier).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Migrated != 1 {
		t.Errorf("migrated = %d, want 1", report.Migrated)
	}
	if got := catalog.streamUIDs["spec-1"]; got != "uid-1" {
		t.Errorf("stream uid = %q, want uid-1", got)
	}
}

func TestSyncMigrationFailureCountsAsFailed(t *testing.T) {
	key := "legacy.mp4"
	catalog := newFakeCatalog()
	catalog.known[key] = struct{}{}
	catalog.forMigration = []model.TechnicalSpec{{ID: "spec-1", Filename: "legacy.mp4", BlobKey: &key}}
	copier := &fakeCopier{fail: true}

	report, err := newSyncService(&fakeBlobs{}, catalog, copier).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Migrated != 0 || report.Failed != 1 {
		t.Errorf("migrated/failed = %d/%d, want 0/1", report.Migrated, report.Failed)
	}
	if len(catalog.streamUIDs) != 0 {
		t.Errorf("uid persisted despite copy failure")
	}
}
