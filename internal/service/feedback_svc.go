package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/repository"
)

var validAnnotationTypes = map[string]bool{
	model.AnnotationRect:     true,
	model.AnnotationEllipse:  true,
	model.AnnotationArrow:    true,
	model.AnnotationFreehand: true,
}

type feedbackStore interface {
	Create(ctx context.Context, f *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]model.Feedback, error)
	UpdateContent(ctx context.Context, id, content, priority string) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type submissionLookup interface {
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	ProjectOwner(ctx context.Context, projectID string) (string, error)
}

// FeedbackService owns review-note authoring: time-anchored comments
// with optional frame annotations, author-only edits, and
// reviewer-gated resolution.
type FeedbackService struct {
	feedback feedbackStore
	subs     submissionLookup
	roles    roleStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewFeedbackService(feedback feedbackStore, subs submissionLookup, roles roleStore, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		subs:     subs,
		roles:    roles,
		log:      log,
		now:      time.Now,
	}
}

// Create authors a feedback entry on a submission. The time anchor and
// annotation geometry are validated before any write.
func (s *FeedbackService) Create(ctx context.Context, userID string, req model.CreateFeedbackRequest) (*model.Feedback, error) {
	if req.SubmissionID == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidInput
	}
	if req.StartTime < 0 {
		return nil, ErrInvalidInput
	}
	if req.EndTime != nil && *req.EndTime < req.StartTime {
		return nil, ErrInvalidInput
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !model.ValidPriorities[priority] {
		return nil, ErrInvalidInput
	}

	if err := validateAnnotation(req.Annotation); err != nil {
		return nil, err
	}

	if _, err := s.subs.FindByID(ctx, req.SubmissionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f := &model.Feedback{
		ID:           repository.NewID(),
		SubmissionID: req.SubmissionID,
		UserID:       userID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Content:      strings.TrimSpace(req.Content),
		Priority:     priority,
		Status:       model.FeedbackPending,
		Annotation:   req.Annotation,
		CreatedAt:    s.now(),
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListBySubmission returns all feedback on a submission, newest first.
func (s *FeedbackService) ListBySubmission(ctx context.Context, submissionID string) ([]model.Feedback, error) {
	return s.feedback.ListBySubmission(ctx, submissionID)
}

// Update applies content/priority edits (author only) and status
// transitions (author, project owner, or admin).
func (s *FeedbackService) Update(ctx context.Context, userID, id string, req model.UpdateFeedbackRequest) (*model.Feedback, error) {
	f, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Content != "" || req.Priority != "" {
		if f.UserID != userID {
			return nil, ErrForbidden
		}
		if req.Priority != "" && !model.ValidPriorities[req.Priority] {
			return nil, ErrInvalidInput
		}
		if err := s.feedback.UpdateContent(ctx, id, req.Content, req.Priority); err != nil {
			return nil, err
		}
		if req.Content != "" {
			f.Content = req.Content
		}
		if req.Priority != "" {
			f.Priority = req.Priority
		}
	}

	if req.Status != "" {
		if !model.ValidFeedbackStatuses[req.Status] {
			return nil, ErrInvalidInput
		}
		ok, err := s.mayResolve(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
		if err := s.feedback.UpdateStatus(ctx, id, req.Status); err != nil {
			return nil, err
		}
		f.Status = req.Status
	}

	return f, nil
}

// Delete removes a feedback entry. Author or admin only.
func (s *FeedbackService) Delete(ctx context.Context, userID, id string) error {
	f, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if f.UserID != userID {
		role, err := s.roles.UserRole(ctx, userID)
		if err != nil || (role != RoleAdmin && role != RoleSuperAdmin) {
			return ErrForbidden
		}
	}

	return s.feedback.Delete(ctx, id)
}

// mayResolve reports whether userID may change a feedback entry's
// resolution status: the author, the submission's project owner, or an
// admin.
func (s *FeedbackService) mayResolve(ctx context.Context, userID string, f *model.Feedback) (bool, error) {
	if f.UserID == userID {
		return true, nil
	}

	sub, err := s.subs.FindByID(ctx, f.SubmissionID)
	if err == nil {
		ownerID, oerr := s.subs.ProjectOwner(ctx, sub.ProjectID)
		if oerr == nil && ownerID == userID {
			return true, nil
		}
	}

	role, err := s.roles.UserRole(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return role == RoleAdmin || role == RoleSuperAdmin, nil
}

// validateAnnotation checks shape type, point count, and that every
// point stays inside the normalized frame.
func validateAnnotation(a *model.Annotation) error {
	if a == nil {
		return nil
	}
	if !validAnnotationTypes[a.Type] {
		return ErrInvalidInput
	}
	if len(a.Points) < 2 {
		return ErrInvalidInput
	}
	if a.Type != model.AnnotationFreehand && len(a.Points) != 2 {
		return ErrInvalidInput
	}
	for _, p := range a.Points {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return ErrInvalidInput
		}
	}
	return nil
}
