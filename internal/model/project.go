package model

import "time"

// Project is the owning entity for videos. The core only creates
// projects during storage reconciliation; full project CRUD lives
// outside this module.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CategoryID  string    `json:"categoryId"`
	CounselorID string    `json:"counselorId"`
	StartedAt   time.Time `json:"startedAt"`
}

// Category is a lookup entity resolved by name during reconciliation.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Counselor is a lookup entity resolved by name during reconciliation.
type Counselor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SyncReport aggregates one storage reconciliation run.
type SyncReport struct {
	TotalInStorage    int      `json:"totalInStorage"`
	VideoFiles        int      `json:"videoFiles"`
	NewSynced         int      `json:"newSynced"`
	UpdatedThumbnails int      `json:"updatedThumbnails"`
	Migrated          int      `json:"migrated"`
	Failed            int      `json:"failed"`
	EstimatedMinutes  int      `json:"estimatedMinutes"`
	Orphans           []string `json:"orphans"`
	FinishedAt        string   `json:"finishedAt"`
}
