package handler

import (
	"net/http"

	"property-service/internal/middleware"
	"property-service/internal/repository"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StatsSource computes the dashboard statistics for one owner.
type StatsSource interface {
	Overview(ownerID uint) (*repository.Overview, error)
}

// DashboardHandler serves the aggregated statistics endpoint.
type DashboardHandler struct {
	stats StatsSource
}

func NewDashboardHandler(stats StatsSource) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Index returns the caller's dashboard statistics.
func (h *DashboardHandler) Index(c echo.Context) error {
	log := logger.FromContext(c)
	ownerID, _ := middleware.CurrentUserID(c)
	prometheus.RecordDashboardRequest()

	overview, err := h.stats.Overview(ownerID)
	if err != nil {
		log.Error("failed to compute dashboard statistics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to retrieve statistics"})
	}

	return c.JSON(http.StatusOK, overview)
}
