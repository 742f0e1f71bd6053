package service

import "errors"

// Error kinds surfaced by the pipeline services. Handlers map these to
// HTTP responses; nothing below ever reaches a client as a 500 unless
// it is genuinely unexpected.
var (
	// ErrNotFound: the referenced entity does not exist. Rejected
	// before any write happens.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the caller is neither owner, submitter, nor holds
	// an elevated role for the attempted mutation.
	ErrForbidden = errors.New("permission denied")

	// ErrInvalidSlot: slot outside [1, maxSlots].
	ErrInvalidSlot = errors.New("slot out of range")

	// ErrInvalidInput: request fails domain validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrHasFeedback: a submission still referenced by feedback cannot
	// be hard-deleted.
	ErrHasFeedback = errors.New("submission has feedback")

	// ErrSyncInProgress: a storage reconciliation pass is already
	// running; runs are single-flight.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrCaptionRejected: the provider declined a caption request.
	ErrCaptionRejected = errors.New("caption request rejected by provider")
)
