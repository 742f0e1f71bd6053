package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

const submissionColumns = `
	id, project_id, user_id, slot, version, version_title, status,
	stream_uid, blob_key, created_at, updated_at`

// FindBySlot returns the live submission at (project, slot), if any.
func (r *SubmissionRepo) FindBySlot(ctx context.Context, projectID string, slot int) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE project_id = $1 AND slot = $2`,
		projectID, slot).Scan(
		&s.ID, &s.ProjectID, &s.UserID, &s.Slot, &s.Version, &s.VersionTitle, &s.Status,
		&s.StreamUID, &s.BlobKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByID returns a submission by primary key.
func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions WHERE id = $1`, id).Scan(
		&s.ID, &s.ProjectID, &s.UserID, &s.Slot, &s.Version, &s.VersionTitle, &s.Status,
		&s.StreamUID, &s.BlobKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByProject returns all submissions of a project ordered by slot.
func (r *SubmissionRepo) ListByProject(ctx context.Context, projectID string) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE project_id = $1
		ORDER BY slot ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		err := rows.Scan(
			&s.ID, &s.ProjectID, &s.UserID, &s.Slot, &s.Version, &s.VersionTitle, &s.Status,
			&s.StreamUID, &s.BlobKey, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// Create inserts the first submission for a slot. The unique
// (project_id, slot) constraint backs the one-live-row invariant even
// under concurrent submits.
func (r *SubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO submissions
			(id, project_id, user_id, slot, version, version_title, status, stream_uid, blob_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		s.ID, s.ProjectID, s.UserID, s.Slot, s.Version, s.VersionTitle, s.Status,
		s.StreamUID, s.BlobKey, s.CreatedAt)
	return err
}

// Revise mutates the existing row for an occupied slot: bump version,
// replace the media locator, reset review status, and keep the old
// title when the new one is blank.
func (r *SubmissionRepo) Revise(ctx context.Context, id string, streamUID, blobKey *string, versionTitle string) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx, `
		UPDATE submissions
		SET version = version + 1,
		    stream_uid = $2,
		    blob_key = $3,
		    version_title = CASE WHEN $4 = '' THEN version_title ELSE $4 END,
		    status = $5,
		    updated_at = $6
		WHERE id = $1
		RETURNING `+submissionColumns,
		id, streamUID, blobKey, versionTitle, model.SubmissionPending, time.Now()).Scan(
		&s.ID, &s.ProjectID, &s.UserID, &s.Slot, &s.Version, &s.VersionTitle, &s.Status,
		&s.StreamUID, &s.BlobKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatus sets the review status.
func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE submissions SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// UpdateTitle sets the version title.
func (r *SubmissionRepo) UpdateTitle(ctx context.Context, id, title string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE submissions SET version_title = $1, updated_at = NOW() WHERE id = $2`,
		title, id)
	return err
}

// Delete removes a submission row.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	return err
}

// ProjectOwner returns the owner id of a project.
func (r *SubmissionRepo) ProjectOwner(ctx context.Context, projectID string) (string, error) {
	var ownerID string
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM projects WHERE id = $1`, projectID).Scan(&ownerID)
	return ownerID, err
}
