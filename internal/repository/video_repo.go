package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// FindByStreamUID returns the video owning the technical spec with the
// given stream UID. Webhook reconciliation keys on this lookup.
func (r *VideoRepo) FindByStreamUID(ctx context.Context, uid string) (*model.Video, error) {
	query := `
		SELECT v.id, v.project_id, v.version_label, v.status, v.created_at, v.completed_at
		FROM videos v
		JOIN technical_specs ts ON ts.video_id = v.id
		WHERE ts.stream_uid = $1`

	var v model.Video
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&v.ID, &v.ProjectID, &v.VersionLabel, &v.Status, &v.CreatedAt, &v.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SetStatus assigns a lifecycle status. Plain assignment keeps webhook
// application idempotent: the same terminal event applied twice lands
// on the same row state.
func (r *VideoRepo) SetStatus(ctx context.Context, videoID, status string, completedAt *time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE videos SET status = $1, completed_at = COALESCE($2, completed_at)
		WHERE id = $3`,
		status, completedAt, videoID)
	return err
}

// SetDuration records the encoded duration reported by the provider.
func (r *VideoRepo) SetDuration(ctx context.Context, videoID string, seconds float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE technical_specs SET duration = $1 WHERE video_id = $2`,
		seconds, videoID)
	return err
}

// AllBlobKeys returns every blob key registered in the catalog. The
// storage sync job diffs the bucket listing against this set.
func (r *VideoRepo) AllBlobKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT blob_key FROM technical_specs WHERE blob_key IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

// SpecsMissingThumbnail lists specs eligible for thumbnail backfill.
func (r *VideoRepo) SpecsMissingThumbnail(ctx context.Context) ([]model.TechnicalSpec, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, video_id, filename, blob_key, stream_uid, file_size, format, thumbnail_url, duration
		FROM technical_specs
		WHERE thumbnail_url IS NULL AND blob_key IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSpecs(rows)
}

// SpecsForMigration lists blob-only specs awaiting stream ingestion.
func (r *VideoRepo) SpecsForMigration(ctx context.Context, limit int) ([]model.TechnicalSpec, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, video_id, filename, blob_key, stream_uid, file_size, format, thumbnail_url, duration
		FROM technical_specs
		WHERE blob_key IS NOT NULL AND stream_uid IS NULL
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSpecs(rows)
}

// SetThumbnail backfills a thumbnail URL on a spec.
func (r *VideoRepo) SetThumbnail(ctx context.Context, specID, url string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE technical_specs SET thumbnail_url = $1 WHERE id = $2`, url, specID)
	return err
}

// SetStreamUID records the media id returned by a remote-copy request.
func (r *VideoRepo) SetStreamUID(ctx context.Context, specID, uid string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE technical_specs SET stream_uid = $1 WHERE id = $2`, uid, specID)
	return err
}

// CreateTriple inserts a project, video, and technical spec in one
// transaction. Used by the storage sync job to register orphans.
func (r *VideoRepo) CreateTriple(ctx context.Context, p model.Project, v model.Video, spec model.TechnicalSpec) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO projects (id, title, status, owner_id, category_id, counselor_id, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Title, p.Status, p.OwnerID, p.CategoryID, p.CounselorID, p.StartedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO videos (id, project_id, version_label, status, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.ProjectID, v.VersionLabel, v.Status, v.CreatedAt, v.CompletedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO technical_specs (id, video_id, filename, blob_key, stream_uid, file_size, format, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		spec.ID, spec.VideoID, spec.Filename, spec.BlobKey, spec.StreamUID, spec.FileSize, spec.Format, spec.ThumbnailURL)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateForProject inserts a video and spec under an existing project.
// Used when an approved submission becomes the project deliverable.
func (r *VideoRepo) CreateForProject(ctx context.Context, v model.Video, spec model.TechnicalSpec) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO videos (id, project_id, version_label, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.ProjectID, v.VersionLabel, v.Status, v.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO technical_specs (id, video_id, filename, blob_key, stream_uid, file_size, format, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		spec.ID, spec.VideoID, spec.Filename, spec.BlobKey, spec.StreamUID, spec.FileSize, spec.Format, spec.ThumbnailURL)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetPlayback loads a video with its spec and project title.
func (r *VideoRepo) GetPlayback(ctx context.Context, videoID string) (*model.Video, *model.TechnicalSpec, string, error) {
	query := `
		SELECT v.id, v.project_id, v.version_label, v.status, v.created_at, v.completed_at,
		       ts.id, ts.video_id, ts.filename, ts.blob_key, ts.stream_uid, ts.file_size,
		       ts.format, ts.thumbnail_url, ts.duration,
		       p.title
		FROM videos v
		JOIN technical_specs ts ON ts.video_id = v.id
		JOIN projects p ON p.id = v.project_id
		WHERE v.id = $1`

	var v model.Video
	var spec model.TechnicalSpec
	var title string
	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&v.ID, &v.ProjectID, &v.VersionLabel, &v.Status, &v.CreatedAt, &v.CompletedAt,
		&spec.ID, &spec.VideoID, &spec.Filename, &spec.BlobKey, &spec.StreamUID, &spec.FileSize,
		&spec.Format, &spec.ThumbnailURL, &spec.Duration,
		&title,
	)
	if err != nil {
		return nil, nil, "", err
	}
	return &v, &spec, title, nil
}

// NewID returns a fresh UUID string for catalog rows.
func NewID() string {
	return uuid.NewString()
}

type specRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSpecs(rows specRows) ([]model.TechnicalSpec, error) {
	var specs []model.TechnicalSpec
	for rows.Next() {
		var s model.TechnicalSpec
		err := rows.Scan(&s.ID, &s.VideoID, &s.Filename, &s.BlobKey, &s.StreamUID,
			&s.FileSize, &s.Format, &s.ThumbnailURL, &s.Duration)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, rows.Err()
}
