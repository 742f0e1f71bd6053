package model

// Provider-reported encoding states. Only the terminal states drive a
// lifecycle transition; intermediates are logged and dropped.
const (
	StreamStateQueued      = "queued"
	StreamStateDownloading = "downloading"
	StreamStateEncoding    = "encoding"
	StreamStateReady       = "ready"
	StreamStateError       = "error"
	// Some provider versions report "errored" instead of "error".
	StreamStateErrored = "errored"
)

// WebhookEvent is the decoded body of a provider status notification.
// Events are ephemeral: consumed once, never persisted.
type WebhookEvent struct {
	UID    string `json:"uid"`
	Status struct {
		State string `json:"state"`
	} `json:"status"`
	Duration float64 `json:"duration"`
}

// Terminal reports whether the event's state ends the encoding lifecycle.
func (e *WebhookEvent) Terminal() bool {
	switch e.Status.State {
	case StreamStateReady, StreamStateError, StreamStateErrored:
		return true
	}
	return false
}
