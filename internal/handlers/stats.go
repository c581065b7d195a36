package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/hannaddev/journal-tracker/api/v1"
)

// GetStats returns the per-location aggregate for a year
// (GET /stats)
func (h *Handler) GetStats(c *gin.Context) {
	year := c.Query("year")

	result, err := h.statsSrv.Aggregate(c.Request.Context(), year)
	if err != nil {
		zap.S().Named("stats_handler").Errorw("failed to aggregate stats", "year", year, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to aggregate stats"})
		return
	}

	c.JSON(http.StatusOK, v1.NewStatsResponse(result))
}

// GetForecast returns the next expected report forecast
// (GET /forecast)
func (h *Handler) GetForecast(c *gin.Context) {
	forecast, ok := h.trackerSrv.Forecast(time.Now())
	if !ok {
		c.JSON(http.StatusNotFound, v1.Error{Error: "no report observed yet"})
		return
	}

	c.JSON(http.StatusOK, v1.NewForecastResponse(forecast))
}
