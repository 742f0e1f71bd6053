package stream

import (
	"crypto/hmac"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	// Playback tokens live long enough for a viewing session.
	tokenTTL = 2 * time.Hour
	// Tolerate small clock skew between us and the CDN.
	tokenNotBeforeSkew = 5 * time.Second
	// Webhook deliveries older than this are treated as replays.
	maxSignatureAge = 300 * time.Second
)

// Signer issues signed playback tokens and verifies webhook
// authenticity. Both operations are pure CPU work with no shared
// mutable state and are safe for concurrent use.
type Signer struct {
	keyID         string
	key           *rsa.PrivateKey
	webhookSecret string
	log           zerolog.Logger

	now func() time.Time
}

// NewSigner parses the signing key if one is configured. A missing or
// malformed key is logged and leaves the signer in unsigned mode:
// IssuePlaybackToken returns "" and playback degrades to open URLs.
func NewSigner(keyID, keyPEM, webhookSecret string, log zerolog.Logger) *Signer {
	s := &Signer{
		keyID:         keyID,
		webhookSecret: webhookSecret,
		log:           log,
		now:           time.Now,
	}

	if keyID == "" || keyPEM == "" {
		log.Warn().Msg("no stream signing key configured, playback tokens disabled")
		return s
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(keyPEM))
	if err != nil {
		log.Error().Err(err).Msg("invalid stream signing key PEM, playback tokens disabled")
		return s
	}
	s.key = key
	return s
}

// CanSign reports whether a signing key is loaded.
func (s *Signer) CanSign() bool {
	return s.key != nil
}

// HasWebhookSecret reports whether webhook verification is configured.
func (s *Signer) HasWebhookSecret() bool {
	return s.webhookSecret != ""
}

// IssuePlaybackToken builds an RS256 playback credential for a stream
// UID. Returns "" when no key is configured or signing fails; callers
// must treat an empty token as unsigned playback, never as an error.
func (s *Signer) IssuePlaybackToken(uid string) string {
	if s.key == nil || s.keyID == "" {
		return ""
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": uid,
		"kid": s.keyID,
		"exp": now.Add(tokenTTL).Unix(),
		"nbf": now.Add(-tokenNotBeforeSkew).Unix(),
		"accessRules": []map[string]string{
			{"type": "any", "action": "allow"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		s.log.Error().Err(err).Str("uid", uid).Msg("playback token signing failed")
		return ""
	}
	return signed
}

// VerifyWebhookSignature checks a "time=<unix>,sig1=<hex>" header
// against HMAC-SHA256(secret, "<time>.<rawBody>"). Any malformed
// input, stale timestamp, or mismatch yields false — never a panic or
// an error the caller could mistake for transport trouble.
func (s *Signer) VerifyWebhookSignature(header string, rawBody []byte) bool {
	if s.webhookSecret == "" || header == "" {
		return false
	}

	var timePart, sigPart string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "time":
			timePart = value
		case "sig1":
			sigPart = value
		}
	}
	if timePart == "" || sigPart == "" {
		return false
	}

	ts, err := strconv.ParseInt(timePart, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix()-ts > int64(maxSignatureAge.Seconds()) {
		return false
	}

	delivered, err := hex.DecodeString(sigPart)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(timePart))
	mac.Write([]byte("."))
	mac.Write(rawBody)

	return hmac.Equal(delivered, mac.Sum(nil))
}
