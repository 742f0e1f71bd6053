package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/repository"
)

// User roles recognized by the permission checks.
const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

var validSubmissionStatuses = map[string]bool{
	model.SubmissionPending:  true,
	model.SubmissionInReview: true,
	model.SubmissionApproved: true,
	model.SubmissionRejected: true,
	model.SubmissionRevised:  true,
}

type submissionStore interface {
	FindBySlot(ctx context.Context, projectID string, slot int) (*model.Submission, error)
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Submission, error)
	Create(ctx context.Context, s *model.Submission) error
	Revise(ctx context.Context, id string, streamUID, blobKey *string, versionTitle string) (*model.Submission, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateTitle(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	ProjectOwner(ctx context.Context, projectID string) (string, error)
}

type roleStore interface {
	UserRole(ctx context.Context, userID string) (string, error)
}

type feedbackCounter interface {
	CountBySubmission(ctx context.Context, submissionID string) (int, error)
}

type deliverableCreator interface {
	CreateForProject(ctx context.Context, v model.Video, spec model.TechnicalSpec) error
}

// SubmissionService owns the slot-based revisioning rules: one live row
// per (project, slot), version bumps on re-upload, and the permission
// tiers for review decisions.
type SubmissionService struct {
	subs     submissionStore
	roles    roleStore
	feedback feedbackCounter
	videos   deliverableCreator
	maxSlots int
	log      zerolog.Logger
	now      func() time.Time
}

func NewSubmissionService(subs submissionStore, roles roleStore, feedback feedbackCounter, videos deliverableCreator, maxSlots int, log zerolog.Logger) *SubmissionService {
	if maxSlots <= 0 {
		maxSlots = 5
	}
	return &SubmissionService{
		subs:     subs,
		roles:    roles,
		feedback: feedback,
		videos:   videos,
		maxSlots: maxSlots,
		log:      log,
		now:      time.Now,
	}
}

// Submit creates the first submission for a free slot, or revises the
// occupied slot's row: version bump, locator replacement, status reset
// to PENDING. Only the original submitter may revise.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req model.SubmitRequest) (*model.Submission, error) {
	if req.Slot < 1 || req.Slot > s.maxSlots {
		return nil, ErrInvalidSlot
	}
	if req.ProjectID == "" || (req.StreamUID == "" && req.BlobKey == "") {
		return nil, ErrInvalidInput
	}

	streamUID := optional(req.StreamUID)
	blobKey := optional(req.BlobKey)

	existing, err := s.subs.FindBySlot(ctx, req.ProjectID, req.Slot)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if existing != nil {
		if existing.UserID != userID {
			return nil, ErrForbidden
		}
		revised, err := s.subs.Revise(ctx, existing.ID, streamUID, blobKey, req.VersionTitle)
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("submission_id", revised.ID).Int("slot", revised.Slot).
			Int("version", revised.Version).Msg("submission revised")
		return revised, nil
	}

	sub := &model.Submission{
		ID:           repository.NewID(),
		ProjectID:    req.ProjectID,
		UserID:       userID,
		Slot:         req.Slot,
		Version:      1,
		VersionTitle: req.VersionTitle,
		Status:       model.SubmissionPending,
		StreamUID:    streamUID,
		BlobKey:      blobKey,
		CreatedAt:    s.now(),
	}
	sub.UpdatedAt = sub.CreatedAt

	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info().Str("submission_id", sub.ID).Str("project_id", sub.ProjectID).
		Int("slot", sub.Slot).Msg("submission created")
	return sub, nil
}

// Get returns one submission.
func (s *SubmissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListByProject returns a project's submissions ordered by slot.
func (s *SubmissionService) ListByProject(ctx context.Context, projectID string) ([]model.Submission, error) {
	return s.subs.ListByProject(ctx, projectID)
}

// Update applies a review decision or a title edit. Status changes are
// reserved for the project owner and admins; title edits additionally
// allow the submitter. Approving a submission promotes it to a project
// deliverable.
func (s *SubmissionService) Update(ctx context.Context, userID, id string, req model.UpdateSubmissionRequest) (*model.Submission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if !validSubmissionStatuses[req.Status] {
			return nil, ErrInvalidInput
		}
		ok, err := s.isReviewer(ctx, userID, sub.ProjectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
		if err := s.subs.UpdateStatus(ctx, id, req.Status); err != nil {
			return nil, err
		}
		sub.Status = req.Status

		if req.Status == model.SubmissionApproved {
			if err := s.promote(ctx, sub); err != nil {
				s.log.Error().Err(err).Str("submission_id", id).Msg("deliverable promotion failed")
			}
		}
	}

	if req.VersionTitle != "" {
		allowed := sub.UserID == userID
		if !allowed {
			allowed, err = s.isReviewer(ctx, userID, sub.ProjectID)
			if err != nil {
				return nil, err
			}
		}
		if !allowed {
			return nil, ErrForbidden
		}
		if err := s.subs.UpdateTitle(ctx, id, req.VersionTitle); err != nil {
			return nil, err
		}
		sub.VersionTitle = req.VersionTitle
	}

	return sub, nil
}

// Delete removes a submission. Only the submitter or a super admin may
// delete, and never while feedback still references the row.
func (s *SubmissionService) Delete(ctx context.Context, userID, id string) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if sub.UserID != userID {
		role, err := s.roles.UserRole(ctx, userID)
		if err != nil {
			return err
		}
		if role != RoleSuperAdmin {
			return ErrForbidden
		}
	}

	n, err := s.feedback.CountBySubmission(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrHasFeedback
	}

	return s.subs.Delete(ctx, id)
}

// isReviewer reports whether userID owns the project or holds an
// admin role.
func (s *SubmissionService) isReviewer(ctx context.Context, userID, projectID string) (bool, error) {
	ownerID, err := s.subs.ProjectOwner(ctx, projectID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	if ownerID == userID {
		return true, nil
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

// promote registers an approved submission as the project's deliverable
// video so it enters the playback catalog.
func (s *SubmissionService) promote(ctx context.Context, sub *model.Submission) error {
	if s.videos == nil {
		return nil
	}

	completedAt := s.now()
	video := model.Video{
		ID:           repository.NewID(),
		ProjectID:    sub.ProjectID,
		VersionLabel: versionLabel(sub.Version),
		Status:       model.VideoStatusFinal,
		CreatedAt:    completedAt,
	}

	filename := sub.VersionTitle
	if filename == "" {
		filename = sub.ID
	}
	spec := model.TechnicalSpec{
		ID:        repository.NewID(),
		VideoID:   video.ID,
		Filename:  filename,
		BlobKey:   sub.BlobKey,
		StreamUID: sub.StreamUID,
		Format:    "mp4",
	}

	return s.videos.CreateForProject(ctx, video, spec)
}

func versionLabel(version int) string {
	return "v" + strconv.Itoa(version) + ".0"
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
