package domain

import "time"

// WakeUpStatus tracks a wake-up site through wake and migration
type WakeUpStatus string

const (
	WakeUpStatusPending    WakeUpStatus = "pending"
	WakeUpStatusInProgress WakeUpStatus = "in_progress"
	WakeUpStatusWaking     WakeUpStatus = "waking"
	WakeUpStatusCompleted  WakeUpStatus = "completed"
	WakeUpStatusFailed     WakeUpStatus = "failed"
	WakeUpStatusWakeFailed WakeUpStatus = "wake_failed"
	WakeUpStatusError      WakeUpStatus = "error"
)

// IsValidWakeUpStatus checks if a status is known
func IsValidWakeUpStatus(s WakeUpStatus) bool {
	switch s {
	case WakeUpStatusPending, WakeUpStatusInProgress, WakeUpStatusWaking,
		WakeUpStatusCompleted, WakeUpStatusFailed, WakeUpStatusWakeFailed, WakeUpStatusError:
		return true
	}
	return false
}

// WakeUpSite is a staged site whose media may still be sleeping upstream
type WakeUpSite struct {
	SiteID            string       `json:"siteId" firestore:"siteId"`
	IsAwake           bool         `json:"isAwake" firestore:"isAwake"`
	WakeUpURL         string       `json:"wakeUpUrl" firestore:"wakeUpUrl"`
	LastWakeUpAttempt *time.Time   `json:"lastWakeUpAttempt,omitempty" firestore:"lastWakeUpAttempt,omitempty"`
	MigrationStatus   WakeUpStatus `json:"migrationStatus" firestore:"migrationStatus"`
	MigrationError    string       `json:"migrationError,omitempty" firestore:"migrationError,omitempty"`
	CSVData           CSVRow       `json:"csvData" firestore:"csvData"`
	CreatedAt         time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt" firestore:"updatedAt"`
}
