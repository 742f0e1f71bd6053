package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

// videoStatusStore is the slice of the video repository the reconciler
// needs: UID lookup plus status and duration writes.
type videoStatusStore interface {
	FindByStreamUID(ctx context.Context, uid string) (*model.Video, error)
	SetStatus(ctx context.Context, videoID, status string, completedAt *time.Time) error
	SetDuration(ctx context.Context, videoID string, seconds float64) error
}

// ReconcileService applies provider status notifications to the video
// catalog. It is the only writer of webhook-driven lifecycle
// transitions, and applying the same event twice is a no-op by design
// of the underlying assignment.
type ReconcileService struct {
	videos videoStatusStore
	cache  *CacheService
	log    zerolog.Logger
	now    func() time.Time
}

func NewReconcileService(videos videoStatusStore, cache *CacheService, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{
		videos: videos,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// Apply maps a verified webhook event onto the owning video's
// lifecycle. Unknown UIDs and intermediate states are logged and
// dropped so the provider never sees a retry-inducing failure for
// events we cannot or need not act on.
func (s *ReconcileService) Apply(ctx context.Context, evt *model.WebhookEvent) error {
	if evt.UID == "" {
		return ErrInvalidInput
	}

	video, err := s.videos.FindByStreamUID(ctx, evt.UID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Str("uid", evt.UID).Str("state", evt.Status.State).
				Msg("webhook: no video for stream uid, dropping")
			return nil
		}
		return err
	}

	if !evt.Terminal() {
		s.log.Debug().Str("uid", evt.UID).Str("state", evt.Status.State).
			Msg("webhook: intermediate state, dropping")
		return nil
	}

	switch evt.Status.State {
	case model.StreamStateReady:
		completedAt := s.now()
		if err := s.videos.SetStatus(ctx, video.ID, model.VideoStatusFinal, &completedAt); err != nil {
			return err
		}
		if evt.Duration > 0 {
			if err := s.videos.SetDuration(ctx, video.ID, evt.Duration); err != nil {
				return err
			}
		}
		s.log.Info().Str("uid", evt.UID).Str("video_id", video.ID).
			Float64("duration", evt.Duration).Msg("webhook: video ready")

	default: // error / errored
		if err := s.videos.SetStatus(ctx, video.ID, model.VideoStatusFailed, nil); err != nil {
			return err
		}
		s.log.Warn().Str("uid", evt.UID).Str("video_id", video.ID).
			Msg("webhook: encoding failed")
	}

	if s.cache != nil {
		if err := s.cache.InvalidatePlayback(ctx, video.ID); err != nil {
			s.log.Warn().Err(err).Str("video_id", video.ID).Msg("webhook: cache invalidation failed")
		}
	}

	return nil
}
