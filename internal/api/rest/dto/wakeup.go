package dto

import (
	"github.com/loganpetree/homesellphotography/internal/domain"
)

// UpdateWakeUpRequest sets the awake flag of a wake-up site
type UpdateWakeUpRequest struct {
	SiteID  string `json:"siteId" binding:"required"`
	IsAwake *bool  `json:"isAwake" binding:"required"`
}

// MigrateWakeUpRequest migrates one wake-up site
type MigrateWakeUpRequest struct {
	SiteID string `json:"siteId" binding:"required"`
}

// WakeUpListResponse lists wake-up sites
type WakeUpListResponse struct {
	Sites []domain.WakeUpSite `json:"sites"`
	Total int                 `json:"total"`
}

// WakeUpUpdateResponse acknowledges an awake flag change
type WakeUpUpdateResponse struct {
	Success bool   `json:"success"`
	SiteID  string `json:"siteId"`
	IsAwake bool   `json:"isAwake"`
}

// MediaStats are the media counts of a migrated site
type MediaStats struct {
	Total       int     `json:"total"`
	Stored      int     `json:"stored"`
	Fallback    int     `json:"fallback"`
	Failed      int     `json:"failed"`
	Sleeping    int     `json:"sleeping"`
	SuccessRate float64 `json:"successRate"`
}

// MigrateWakeUpResponse reports a finished single-site migration
type MigrateWakeUpResponse struct {
	Success bool       `json:"success"`
	SiteID  string     `json:"siteId"`
	Message string     `json:"message"`
	Media   MediaStats `json:"media"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status string `json:"status"`
}
