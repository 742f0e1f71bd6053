package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

type playbackCatalog interface {
	GetPlayback(ctx context.Context, videoID string) (*model.Video, *model.TechnicalSpec, string, error)
}

type tokenIssuer interface {
	IssuePlaybackToken(uid string) string
}

type viewsFetcher interface {
	FetchViewCount(ctx context.Context, uid string) int
}

// PlaybackService assembles the playback response for one video:
// token-signed manifest and thumbnail URLs, with a cache-aside layer
// in front of both the catalog read and the provider's view counter.
// When signing is unavailable the URLs degrade to unsigned paths
// rather than failing the request.
type PlaybackService struct {
	catalog        playbackCatalog
	signer         tokenIssuer
	views          viewsFetcher
	cache          *CacheService
	deliveryDomain string
	log            zerolog.Logger
}

func NewPlaybackService(catalog playbackCatalog, signer tokenIssuer, views viewsFetcher, cache *CacheService, deliveryDomain string, log zerolog.Logger) *PlaybackService {
	return &PlaybackService{
		catalog:        catalog,
		signer:         signer,
		views:          views,
		cache:          cache,
		deliveryDomain: deliveryDomain,
		log:            log,
	}
}

// cachedPlayback is the cache payload: the response body plus the
// stream UID needed to refresh view counts on a cache hit.
type cachedPlayback struct {
	Info model.PlaybackInfo `json:"info"`
	UID  string             `json:"uid,omitempty"`
}

// Get returns playback info for a video. Cached entries short-circuit
// catalog and signing work; view counts refresh on their own, longer
// cadence.
func (s *PlaybackService) Get(ctx context.Context, videoID string) (*model.PlaybackInfo, error) {
	var entry *cachedPlayback

	if s.cache != nil {
		if data, err := s.cache.GetPlayback(ctx, videoID); err == nil && data != nil {
			var cached cachedPlayback
			if err := json.Unmarshal(data, &cached); err == nil {
				entry = &cached
			}
		}
	}

	if entry == nil {
		video, spec, title, err := s.catalog.GetPlayback(ctx, videoID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		entry = &cachedPlayback{Info: model.PlaybackInfo{
			VideoID:      video.ID,
			Title:        title,
			VersionLabel: video.VersionLabel,
			Status:       video.Status,
		}}
		if spec.StreamUID != nil && *spec.StreamUID != "" {
			entry.UID = *spec.StreamUID
			s.assembleURLs(&entry.Info, entry.UID)
		} else if spec.ThumbnailURL != nil {
			entry.Info.ThumbnailURL = *spec.ThumbnailURL
		}

		if s.cache != nil {
			if err := s.cache.SetPlayback(ctx, videoID, entry); err != nil {
				s.log.Warn().Err(err).Str("video_id", videoID).Msg("playback cache write failed")
			}
		}
	}

	info := entry.Info
	if entry.UID != "" && s.views != nil {
		info.Views = s.viewCount(ctx, entry.UID)
	}

	return &info, nil
}

// assembleURLs fills manifest and thumbnail URLs, signed when a token
// is available and addressed by raw UID otherwise.
func (s *PlaybackService) assembleURLs(info *model.PlaybackInfo, uid string) {
	handle := uid
	if s.signer != nil {
		if token := s.signer.IssuePlaybackToken(uid); token != "" {
			handle = token
			info.Token = token
		}
	}
	info.ManifestURL = fmt.Sprintf("https://%s/%s/manifest/video.m3u8", s.deliveryDomain, handle)
	info.ThumbnailURL = fmt.Sprintf("https://%s/%s/thumbnails/thumbnail.jpg", s.deliveryDomain, handle)
}

// viewCount reads the cached count or falls through to the provider.
func (s *PlaybackService) viewCount(ctx context.Context, uid string) int {
	if s.cache != nil {
		if n, ok := s.cache.GetViews(ctx, uid); ok {
			return n
		}
	}
	n := s.views.FetchViewCount(ctx, uid)
	if s.cache != nil {
		if err := s.cache.SetViews(ctx, uid, n); err != nil {
			s.log.Warn().Err(err).Str("uid", uid).Msg("views cache write failed")
		}
	}
	return n
}
