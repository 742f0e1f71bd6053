package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the streaming provider's HTTP API. The server never
// proxies media bytes itself: uploads go straight from the browser to
// the session endpoint this client obtains.
type Client struct {
	base      string
	accountID string
	token     string
	http      *http.Client
	log       zerolog.Logger
}

// NewClient builds a provider client. base is the API root, e.g.
// "https://api.cloudflare.com/client/v4".
func NewClient(base, accountID, token string, log zerolog.Logger) *Client {
	return &Client{
		base:      base,
		accountID: accountID,
		token:     token,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

// UploadOptions carry the per-session knobs encoded into the
// resumable-upload metadata.
type UploadOptions struct {
	MaxDurationSeconds int
	RequireSignedURLs  bool
	WatermarkID        string
}

// CopyMeta names the asset created by a remote-copy ingestion.
type CopyMeta struct {
	Name     string
	Filename string
	Creator  string
}

type apiEnvelope struct {
	Success bool `json:"success"`
	Result  struct {
		UID string `json:"uid"`
	} `json:"result"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// RequestUploadSession opens a resumable-upload session for a client
// of byteLength bytes owned by ownerID. The returned endpoint is the
// provider's Location header, handed to the uploader verbatim. There
// is no retry: a failed session is simply re-requested by the caller.
func (c *Client) RequestUploadSession(ctx context.Context, ownerID string, byteLength int64, opts UploadOptions) (string, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream?direct_user=true", c.base, c.accountID)

	meta := NewUploadMetadata().
		Set("maxDurationSeconds", strconv.Itoa(opts.MaxDurationSeconds)).
		Set("creator", ownerID)
	if opts.RequireSignedURLs {
		meta.Set("requiresignedurls", "true")
	}
	if opts.WatermarkID != "" {
		meta.Set("watermark", opts.WatermarkID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Tus-Resumable", "1.0.0")
	req.Header.Set("Upload-Length", strconv.FormatInt(byteLength, 10))
	req.Header.Set("Upload-Metadata", meta.Encode())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload session request: provider returned %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("upload session request: no Location header in response")
	}
	return location, nil
}

// CopyFromURL asks the provider to ingest media server-side from an
// already-accessible URL (used when migrating blob-stored files) and
// returns the new media UID.
func (c *Client) CopyFromURL(ctx context.Context, sourceURL string, meta CopyMeta) (string, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/copy", c.base, c.accountID)

	body, err := json.Marshal(map[string]any{
		"url": sourceURL,
		"meta": map[string]string{
			"name":     meta.Name,
			"filename": meta.Filename,
		},
		"requireSignedURLs": true,
		"creator":           meta.Creator,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote copy request: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("remote copy response: %w", err)
	}
	if !envelope.Success || envelope.Result.UID == "" {
		msg := "unknown error"
		if len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Message
		}
		return "", fmt.Errorf("remote copy rejected: %s", msg)
	}
	return envelope.Result.UID, nil
}

// FetchViewCount queries provider analytics for lifetime views.
// Views are decoration on a page, never load-bearing: any transport or
// decoding failure returns 0.
func (c *Client) FetchViewCount(ctx context.Context, uid string) int {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/analytics/views?%s",
		c.base, c.accountID, url.Values{"videoUID": {uid}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("uid", uid).Msg("view count fetch failed")
		return 0
	}
	defer resp.Body.Close()

	var payload struct {
		Result struct {
			Totals struct {
				Views int `json:"views"`
			} `json:"totals"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0
	}
	return payload.Result.Totals.Views
}

// RequestCaptionGeneration asks the provider to auto-generate captions
// for a language. Fire-and-report: the caller decides whether to
// re-trigger on false.
func (c *Client) RequestCaptionGeneration(ctx context.Context, uid, lang string) bool {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/%s/captions/%s/generate",
		c.base, c.accountID, uid, lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Str("lang", lang).Msg("caption generation request failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// UploadCaptionTrack uploads a WebVTT caption track for a language.
func (c *Client) UploadCaptionTrack(ctx context.Context, uid, lang string, vtt []byte) bool {
	endpoint := fmt.Sprintf("%s/accounts/%s/stream/%s/captions/%s",
		c.base, c.accountID, uid, lang)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", lang+".vtt")
	if err != nil {
		return false
	}
	if _, err := part.Write(vtt); err != nil {
		return false
	}
	if err := writer.Close(); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, &body)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("uid", uid).Str("lang", lang).Msg("caption upload failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
