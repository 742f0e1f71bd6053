package model

import "time"

// Feedback priorities.
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Feedback statuses.
const (
	FeedbackPending  = "PENDING"
	FeedbackResolved = "RESOLVED"
	FeedbackWontfix  = "WONTFIX"
)

// Annotation shape types. Freehand is accepted in the data model but
// the review tool only authors bounded two-point shapes.
const (
	AnnotationRect     = "rect"
	AnnotationEllipse  = "ellipse"
	AnnotationArrow    = "arrow"
	AnnotationFreehand = "freehand"
)

// Point is a frame-relative coordinate in [0,1]x[0,1]. Annotations
// never store raw pixels so they survive resolution changes.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is the structured geometry attached to a feedback entry.
type Annotation struct {
	Type   string  `json:"type"`
	Points []Point `json:"points"`
	Color  string  `json:"color"`
}

// Feedback is a review note anchored to a time range of a submission.
type Feedback struct {
	ID           string      `json:"id"`
	SubmissionID string      `json:"submissionId"`
	UserID       string      `json:"userId"`
	StartTime    float64     `json:"startTime"`
	EndTime      *float64    `json:"endTime,omitempty"`
	Content      string      `json:"content"`
	Priority     string      `json:"priority"`
	Status       string      `json:"status"`
	Annotation   *Annotation `json:"annotation,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// CreateFeedbackRequest is the API request body for authoring feedback.
type CreateFeedbackRequest struct {
	SubmissionID string      `json:"submissionId"`
	StartTime    float64     `json:"startTime"`
	EndTime      *float64    `json:"endTime,omitempty"`
	Content      string      `json:"content"`
	Priority     string      `json:"priority,omitempty"`
	Annotation   *Annotation `json:"annotation,omitempty"`
}

// UpdateFeedbackRequest mutates content, priority, or status.
type UpdateFeedbackRequest struct {
	Content  string `json:"content,omitempty"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ValidPriorities enumerates allowed feedback priorities.
var ValidPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityNormal: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

// ValidFeedbackStatuses enumerates allowed feedback statuses.
var ValidFeedbackStatuses = map[string]bool{
	FeedbackPending:  true,
	FeedbackResolved: true,
	FeedbackWontfix:  true,
}
