package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

type FeedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

// Create inserts a feedback row. Annotation geometry is stored as
// JSONB so shapes stay schema-free.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	var annotation []byte
	if f.Annotation != nil {
		var err error
		annotation, err = json.Marshal(f.Annotation)
		if err != nil {
			return err
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO feedback
			(id, submission_id, user_id, start_time, end_time, content, priority, status, annotation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		f.ID, f.SubmissionID, f.UserID, f.StartTime, f.EndTime, f.Content,
		f.Priority, f.Status, annotation, f.CreatedAt)
	return err
}

// FindByID returns one feedback entry.
func (r *FeedbackRepo) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var f model.Feedback
	var annotation []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, submission_id, user_id, start_time, end_time, content, priority, status, annotation, created_at
		FROM feedback WHERE id = $1`, id).Scan(
		&f.ID, &f.SubmissionID, &f.UserID, &f.StartTime, &f.EndTime, &f.Content,
		&f.Priority, &f.Status, &annotation, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(annotation) > 0 {
		var a model.Annotation
		if err := json.Unmarshal(annotation, &a); err == nil {
			f.Annotation = &a
		}
	}
	return &f, nil
}

// ListBySubmission returns all feedback for a submission, newest first.
func (r *FeedbackRepo) ListBySubmission(ctx context.Context, submissionID string) ([]model.Feedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, submission_id, user_id, start_time, end_time, content, priority, status, annotation, created_at
		FROM feedback
		WHERE submission_id = $1
		ORDER BY created_at DESC`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Feedback
	for rows.Next() {
		var f model.Feedback
		var annotation []byte
		err := rows.Scan(
			&f.ID, &f.SubmissionID, &f.UserID, &f.StartTime, &f.EndTime, &f.Content,
			&f.Priority, &f.Status, &annotation, &f.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(annotation) > 0 {
			var a model.Annotation
			if err := json.Unmarshal(annotation, &a); err == nil {
				f.Annotation = &a
			}
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// UpdateContent mutates author-owned fields.
func (r *FeedbackRepo) UpdateContent(ctx context.Context, id, content, priority string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE feedback
		SET content = CASE WHEN $2 = '' THEN content ELSE $2 END,
		    priority = CASE WHEN $3 = '' THEN priority ELSE $3 END
		WHERE id = $1`,
		id, content, priority)
	return err
}

// UpdateStatus transitions a feedback entry's resolution status.
func (r *FeedbackRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE feedback SET status = $1 WHERE id = $2`, status, id)
	return err
}

// Delete removes a feedback entry.
func (r *FeedbackRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	return err
}

// CountBySubmission returns how many feedback rows reference a
// submission. Submissions with feedback are protected from deletion.
func (r *FeedbackRepo) CountBySubmission(ctx context.Context, submissionID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM feedback WHERE submission_id = $1`, submissionID).Scan(&n)
	return n, err
}
