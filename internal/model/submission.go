package model

import "time"

// Submission review statuses.
const (
	SubmissionPending  = "PENDING"
	SubmissionInReview = "IN_REVIEW"
	SubmissionApproved = "APPROVED"
	SubmissionRejected = "REJECTED"
	SubmissionRevised  = "REVISED"
)

// Submission is one creative iteration for a (project, slot) pair.
// At most one live row exists per slot; re-uploads into an occupied
// slot bump Version and reset Status to PENDING.
type Submission struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	UserID       string    `json:"userId"`
	Slot         int       `json:"slot"`
	Version      int       `json:"version"`
	VersionTitle string    `json:"versionTitle,omitempty"`
	Status       string    `json:"status"`
	StreamUID    *string   `json:"streamUid,omitempty"`
	BlobKey      *string   `json:"blobKey,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SubmitRequest is the API request body for creating or revising a submission.
type SubmitRequest struct {
	ProjectID    string `json:"projectId"`
	Slot         int    `json:"slot"`
	VersionTitle string `json:"versionTitle,omitempty"`
	StreamUID    string `json:"streamUid,omitempty"`
	BlobKey      string `json:"blobKey,omitempty"`
}

// UpdateSubmissionRequest mutates review status or title.
type UpdateSubmissionRequest struct {
	Status       string `json:"status,omitempty"`
	VersionTitle string `json:"versionTitle,omitempty"`
}
