package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/stream"
)

// Direct uploads above this byte length are rejected before a provider
// round-trip. Matches the provider's 30 GB single-file ceiling.
const maxUploadBytes = 30 << 30

type uploadProvider interface {
	RequestUploadSession(ctx context.Context, ownerID string, byteLength int64, opts stream.UploadOptions) (string, error)
	RequestCaptionGeneration(ctx context.Context, uid, lang string) bool
	UploadCaptionTrack(ctx context.Context, uid, lang string, vtt []byte) bool
}

// IngestService coordinates media intake: it brokers direct-upload
// sessions so browsers push bytes straight to the provider, and relays
// caption operations. The server itself never carries media payloads.
type IngestService struct {
	provider uploadProvider
	opts     stream.UploadOptions
	log      zerolog.Logger
}

func NewIngestService(provider uploadProvider, opts stream.UploadOptions, log zerolog.Logger) *IngestService {
	return &IngestService{provider: provider, opts: opts, log: log}
}

// CreateUploadSession opens a resumable-upload session owned by
// ownerID and returns the one-time upload endpoint.
func (s *IngestService) CreateUploadSession(ctx context.Context, ownerID string, byteLength int64) (string, error) {
	if ownerID == "" || byteLength <= 0 || byteLength > maxUploadBytes {
		return "", ErrInvalidInput
	}

	endpoint, err := s.provider.RequestUploadSession(ctx, ownerID, byteLength, s.opts)
	if err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Int64("bytes", byteLength).
			Msg("upload session request failed")
		return "", err
	}

	s.log.Info().Str("owner", ownerID).Int64("bytes", byteLength).Msg("upload session created")
	return endpoint, nil
}

// GenerateCaptions asks the provider to auto-caption a video.
func (s *IngestService) GenerateCaptions(ctx context.Context, uid, lang string) error {
	if uid == "" || lang == "" {
		return ErrInvalidInput
	}
	if !s.provider.RequestCaptionGeneration(ctx, uid, lang) {
		return ErrCaptionRejected
	}
	return nil
}

// UploadCaptions stores a caller-provided WebVTT track on a video.
func (s *IngestService) UploadCaptions(ctx context.Context, uid, lang string, vtt []byte) error {
	if uid == "" || lang == "" || len(vtt) == 0 {
		return ErrInvalidInput
	}
	if !s.provider.UploadCaptionTrack(ctx, uid, lang, vtt) {
		return ErrCaptionRejected
	}
	return nil
}
