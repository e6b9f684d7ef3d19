package domain

import (
	"slices"
	"time"
)

// ProgressStatus is the state of a migration run
type ProgressStatus string

const (
	ProgressStatusInProgress ProgressStatus = "in_progress"
	ProgressStatusCompleted  ProgressStatus = "completed"
	ProgressStatusFailed     ProgressStatus = "failed"
)

// MigrationProgress is the checkpoint stored at system/migration_progress
type MigrationProgress struct {
	RunID              string         `json:"runId" firestore:"runId"`
	LastProcessedIndex int            `json:"lastProcessedIndex" firestore:"lastProcessedIndex"`
	CompletedSites     []string       `json:"completedSites" firestore:"completedSites"`
	StartTime          time.Time      `json:"startTime" firestore:"startTime"`
	LastUpdateTime     time.Time      `json:"lastUpdateTime" firestore:"lastUpdateTime"`
	Status             ProgressStatus `json:"status" firestore:"status"`
	Error              string         `json:"error,omitempty" firestore:"error,omitempty"`
}

// NewMigrationProgress returns an empty checkpoint
func NewMigrationProgress(now time.Time) *MigrationProgress {
	return &MigrationProgress{
		LastProcessedIndex: -1,
		CompletedSites:     []string{},
		StartTime:          now,
		LastUpdateTime:     now,
		Status:             ProgressStatusInProgress,
	}
}

// IsCompleted reports whether siteID is in CompletedSites
func (p *MigrationProgress) IsCompleted(siteID string) bool {
	return slices.Contains(p.CompletedSites, siteID)
}

// MarkCompleted appends siteID once and moves LastProcessedIndex forward only
func (p *MigrationProgress) MarkCompleted(siteID string, index int) {
	if !p.IsCompleted(siteID) {
		p.CompletedSites = append(p.CompletedSites, siteID)
	}
	if index > p.LastProcessedIndex {
		p.LastProcessedIndex = index
	}
}

// SleepingMedia is a media asset that only had a placeholder URL upstream
type SleepingMedia struct {
	SiteID      string    `json:"siteId" firestore:"siteId"`
	MediaID     string    `json:"mediaId" firestore:"mediaId"`
	Name        string    `json:"name" firestore:"name"`
	OriginalURL string    `json:"originalUrl" firestore:"originalUrl"`
	Order       int       `json:"order" firestore:"order"`
	RecordedAt  time.Time `json:"recordedAt" firestore:"recordedAt"`
}

// DocID is the sleeping-media document id
func (s SleepingMedia) DocID() string {
	return s.SiteID + "_" + s.MediaID
}
