package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/hannaddev/journal-tracker/api/v1"
	"github.com/hannaddev/journal-tracker/internal/services"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
)

// 1 MiB is far above any realistic document; anything bigger is malformed.
const maxImportSize = 1 << 20

// ExportDocument serves the full persisted document as a download
// (GET /export)
func (h *Handler) ExportDocument(c *gin.Context) {
	name, data, err := h.transferSrv.Export(time.Now())
	if err != nil {
		zap.S().Named("transfer_handler").Errorw("failed to export document", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to export document"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", data)
}

// ExportReport serves the aggregated stats as a spreadsheet download
// (GET /export/report)
func (h *Handler) ExportReport(c *gin.Context) {
	log := zap.S().Named("transfer_handler")

	agg, err := h.statsSrv.Aggregate(c.Request.Context(), c.Query("year"))
	if err != nil {
		log.Errorw("failed to aggregate stats for report", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to build report"})
		return
	}

	var forecast *services.ForecastResult
	if f, ok := h.trackerSrv.Forecast(time.Now()); ok {
		forecast = &f
	}

	report, err := services.BuildStatsReport(agg, forecast)
	if err != nil {
		log.Errorw("failed to build report", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to build report"})
		return
	}
	defer report.Close()

	name := fmt.Sprintf("journal-tracker-report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.Write(c.Writer); err != nil {
		log.Errorw("failed to write report", "error", err)
	}
}

// ImportDocument additively merges an uploaded document
// (POST /import)
func (h *Handler) ImportDocument(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "failed to read request body"})
		return
	}

	result, err := h.transferSrv.Import(c.Request.Context(), data)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, v1.NewImportResponse(result))
	case srvErrors.IsImportFormatError(err):
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
	default:
		zap.S().Named("transfer_handler").Errorw("failed to import document", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to import document"})
	}
}
