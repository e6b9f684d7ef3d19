package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/api/rest/dto"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/migration"
)

// WakeUpService is the wake-up site operations the API exposes
type WakeUpService interface {
	List(ctx context.Context, status domain.WakeUpStatus) ([]domain.WakeUpSite, error)
	SetAwake(ctx context.Context, siteID string, awake bool) error
	Migrate(ctx context.Context, siteID string) (*migration.SiteStats, error)
}

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler,WakeUpService=MockWakeUpService
type Handler interface {
	// GetMigrationProgress returns the migration checkpoint
	// GET /api/v1/migration/progress
	GetMigrationProgress(c *gin.Context)

	// ListWakeUpSites lists wake-up sites ordered by site id
	// GET /api/v1/wake-up?status=<status>
	ListWakeUpSites(c *gin.Context)

	// UpdateWakeUpSite sets the awake flag of a site
	// POST /api/v1/wake-up {siteId, isAwake}
	UpdateWakeUpSite(c *gin.Context)

	// MigrateWakeUpSite migrates one wake-up site synchronously
	// POST /api/v1/wake-up/migrate {siteId}
	MigrateWakeUpSite(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /healthz
	HealthCheck(c *gin.Context)
}

type handler struct {
	checkpoint migration.CheckpointStore
	wakeUp     WakeUpService
}

// NewHandler creates a new REST API handler
func NewHandler(checkpoint migration.CheckpointStore, wakeUp WakeUpService) Handler {
	return &handler{
		checkpoint: checkpoint,
		wakeUp:     wakeUp,
	}
}

func (h *handler) GetMigrationProgress(c *gin.Context) {
	progress, err := h.checkpoint.Load(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to load migration progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *handler) ListWakeUpSites(c *gin.Context) {
	status := domain.WakeUpStatus(c.Query("status"))
	if status != "" && !domain.IsValidWakeUpStatus(status) {
		respondValidationError(c, fmt.Sprintf("unknown status %q", status))
		return
	}

	sites, err := h.wakeUp.List(c.Request.Context(), status)
	if err != nil {
		respondInternalError(c, err, "Failed to list wake-up sites")
		return
	}

	c.JSON(http.StatusOK, dto.WakeUpListResponse{Sites: sites, Total: len(sites)})
}

func (h *handler) UpdateWakeUpSite(c *gin.Context) {
	var req dto.UpdateWakeUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	err := h.wakeUp.SetAwake(c.Request.Context(), req.SiteID, *req.IsAwake)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, "Wake-up site not found", req.SiteID)
			return
		}
		respondInternalError(c, err, "Failed to update wake-up site", zap.String("siteId", req.SiteID))
		return
	}

	c.JSON(http.StatusOK, dto.WakeUpUpdateResponse{Success: true, SiteID: req.SiteID, IsAwake: *req.IsAwake})
}

func (h *handler) MigrateWakeUpSite(c *gin.Context) {
	var req dto.MigrateWakeUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "siteId is required", err.Error())
		return
	}

	stats, err := h.wakeUp.Migrate(c.Request.Context(), req.SiteID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondBadRequest(c, "siteId is required")
		case errors.Is(err, domain.ErrNotFound):
			respondNotFound(c, "Wake-up site not found", req.SiteID)
		default:
			respondServiceError(c, "Migration failed", err, zap.String("siteId", req.SiteID))
		}
		return
	}

	c.JSON(http.StatusOK, dto.MigrateWakeUpResponse{
		Success: true,
		SiteID:  req.SiteID,
		Message: fmt.Sprintf("Site %s migrated", req.SiteID),
		Media: dto.MediaStats{
			Total:       stats.Total,
			Stored:      stats.Stored,
			Fallback:    stats.Fallback,
			Failed:      stats.Failed,
			Sleeping:    stats.Sleeping,
			SuccessRate: stats.SuccessRate(),
		},
	})
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
