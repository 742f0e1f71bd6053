package service

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/repository"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/storage"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/stream"
	"github.com/hamkkebom/Ask-the-Stars-sub001/pkg/mediakey"
)

// Presigned source URLs handed to the provider's remote-copy endpoint
// must outlive the provider's download, which can take a while for
// large masters.
const migrationSourceTTL = 2 * time.Hour

type blobLister interface {
	ListAll(ctx context.Context) ([]storage.Object, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

type syncCatalog interface {
	AllBlobKeys(ctx context.Context) (map[string]struct{}, error)
	SpecsMissingThumbnail(ctx context.Context) ([]model.TechnicalSpec, error)
	SpecsForMigration(ctx context.Context, limit int) ([]model.TechnicalSpec, error)
	SetThumbnail(ctx context.Context, specID, url string) error
	SetStreamUID(ctx context.Context, specID, uid string) error
	CreateTriple(ctx context.Context, p model.Project, v model.Video, spec model.TechnicalSpec) error
}

type lookupStore interface {
	UpsertCategory(ctx context.Context, name string) (string, error)
	UpsertCounselor(ctx context.Context, name string) (string, error)
	SystemOwner(ctx context.Context, email string) (string, error)
}

type mediaCopier interface {
	CopyFromURL(ctx context.Context, sourceURL string, meta stream.CopyMeta) (string, error)
}

// SyncConfig tunes one reconciliation run.
type SyncConfig struct {
	OwnerEmail   string // system account that owns reconciled projects
	AvgMinutes   int    // estimated runtime per legacy video
	MigrateBatch int    // max blob-to-stream migrations per run
}

// SyncService reconciles the blob bucket against the video catalog:
// registers untracked videos under the system account, backfills
// thumbnails from same-named images, and migrates blob-only media to
// the streaming provider. Every item is isolated: one bad object never
// aborts the run.
type SyncService struct {
	blobs   blobLister
	catalog syncCatalog
	lookups lookupStore
	copier  mediaCopier
	cfg     SyncConfig
	log     zerolog.Logger
	now     func() time.Time
}

func NewSyncService(blobs blobLister, catalog syncCatalog, lookups lookupStore, copier mediaCopier, cfg SyncConfig, log zerolog.Logger) *SyncService {
	if cfg.AvgMinutes <= 0 {
		cfg.AvgMinutes = 30
	}
	if cfg.MigrateBatch <= 0 {
		cfg.MigrateBatch = 100
	}
	return &SyncService{
		blobs:   blobs,
		catalog: catalog,
		lookups: lookups,
		copier:  copier,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Run executes one full reconciliation pass and returns its report.
func (s *SyncService) Run(ctx context.Context) (*model.SyncReport, error) {
	objects, err := s.blobs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var videos []storage.Object
	thumbs := make(map[string]string) // base name -> image key
	for _, obj := range objects {
		switch {
		case mediakey.IsVideo(obj.Key):
			videos = append(videos, obj)
		case mediakey.IsImage(obj.Key):
			thumbs[mediakey.BaseName(obj.Key)] = obj.Key
		}
	}

	report := &model.SyncReport{
		TotalInStorage: len(objects),
		VideoFiles:     len(videos),
	}

	known, err := s.catalog.AllBlobKeys(ctx)
	if err != nil {
		return nil, err
	}

	for _, obj := range videos {
		if _, ok := known[obj.Key]; ok {
			continue
		}
		report.Orphans = append(report.Orphans, obj.Key)
		if err := s.registerOrphan(ctx, obj, thumbs); err != nil {
			report.Failed++
			s.log.Error().Err(err).Str("key", obj.Key).Msg("sync: failed to register object")
			continue
		}
		report.NewSynced++
	}

	report.UpdatedThumbnails = s.backfillThumbnails(ctx, thumbs, report)
	report.Migrated = s.migrateToStream(ctx, report)

	report.EstimatedMinutes = report.VideoFiles * s.cfg.AvgMinutes
	report.FinishedAt = s.now().UTC().Format(time.RFC3339)

	s.log.Info().
		Int("total", report.TotalInStorage).
		Int("videos", report.VideoFiles).
		Int("new", report.NewSynced).
		Int("thumbnails", report.UpdatedThumbnails).
		Int("migrated", report.Migrated).
		Int("failed", report.Failed).
		Msg("sync: run complete")

	return report, nil
}

// registerOrphan creates the project/video/spec triple for a blob
// object with no catalog row, deriving metadata from the legacy
// filename convention.
func (s *SyncService) registerOrphan(ctx context.Context, obj storage.Object, thumbs map[string]string) error {
	name := mediakey.Filename(decodeKey(obj.Key))
	meta := ParseLegacyFilename(name, obj.LastModified)

	categoryID, err := s.lookups.UpsertCategory(ctx, meta.Category)
	if err != nil {
		return err
	}
	counselorID, err := s.lookups.UpsertCounselor(ctx, meta.Counselor)
	if err != nil {
		return err
	}
	ownerID, err := s.lookups.SystemOwner(ctx, s.cfg.OwnerEmail)
	if err != nil {
		return err
	}

	project := model.Project{
		ID:          repository.NewID(),
		Title:       meta.Title,
		Status:      "COMPLETED",
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		CounselorID: counselorID,
		StartedAt:   meta.StartedAt,
	}

	completedAt := obj.LastModified
	video := model.Video{
		ID:           repository.NewID(),
		ProjectID:    project.ID,
		VersionLabel: meta.VersionLabel,
		Status:       model.VideoStatusFinal,
		CreatedAt:    obj.LastModified,
		CompletedAt:  &completedAt,
	}

	blobKey := obj.Key
	size := obj.Size
	spec := model.TechnicalSpec{
		ID:       repository.NewID(),
		VideoID:  video.ID,
		Filename: name,
		BlobKey:  &blobKey,
		FileSize: &size,
		Format:   mediakey.Ext(obj.Key),
	}
	if imgKey, ok := thumbs[mediakey.BaseName(obj.Key)]; ok {
		thumbURL := s.blobs.PublicURL(imgKey)
		spec.ThumbnailURL = &thumbURL
	}

	return s.catalog.CreateTriple(ctx, project, video, spec)
}

// backfillThumbnails pairs existing thumbnail-less specs with bucket
// images sharing the video's base name.
func (s *SyncService) backfillThumbnails(ctx context.Context, thumbs map[string]string, report *model.SyncReport) int {
	specs, err := s.catalog.SpecsMissingThumbnail(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sync: thumbnail backfill listing failed")
		report.Failed++
		return 0
	}

	updated := 0
	for _, spec := range specs {
		if spec.BlobKey == nil {
			continue
		}
		imgKey, ok := thumbs[mediakey.BaseName(*spec.BlobKey)]
		if !ok {
			continue
		}
		if err := s.catalog.SetThumbnail(ctx, spec.ID, s.blobs.PublicURL(imgKey)); err != nil {
			report.Failed++
			s.log.Error().Err(err).Str("spec_id", spec.ID).Msg("sync: thumbnail backfill failed")
			continue
		}
		updated++
	}
	return updated
}

// migrateToStream hands blob-only media to the streaming provider via
// presigned source URLs, one batch per run.
func (s *SyncService) migrateToStream(ctx context.Context, report *model.SyncReport) int {
	if s.copier == nil {
		return 0
	}

	specs, err := s.catalog.SpecsForMigration(ctx, s.cfg.MigrateBatch)
	if err != nil {
		s.log.Error().Err(err).Msg("sync: migration listing failed")
		report.Failed++
		return 0
	}

	migrated := 0
	for _, spec := range specs {
		if spec.BlobKey == nil {
			continue
		}
		sourceURL, err := s.blobs.PresignGet(ctx, *spec.BlobKey, migrationSourceTTL)
		if err != nil {
			report.Failed++
			s.log.Error().Err(err).Str("key", *spec.BlobKey).Msg("sync: presign failed")
			continue
		}
		uid, err := s.copier.CopyFromURL(ctx, sourceURL, stream.CopyMeta{
			Name:     spec.Filename,
			Filename: spec.Filename,
		})
		if err != nil {
			report.Failed++
			s.log.Error().Err(err).Str("key", *spec.BlobKey).Msg("sync: remote copy failed")
			continue
		}
		if err := s.catalog.SetStreamUID(ctx, spec.ID, uid); err != nil {
			report.Failed++
			s.log.Error().Err(err).Str("spec_id", spec.ID).Msg("sync: uid persist failed")
			continue
		}
		migrated++
	}
	return migrated
}

// decodeKey undoes percent-encoding applied by upload tooling. Keys
// that fail decoding are used as-is.
func decodeKey(key string) string {
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
