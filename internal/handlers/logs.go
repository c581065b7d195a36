package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/hannaddev/journal-tracker/api/v1"
	"github.com/hannaddev/journal-tracker/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetLogs returns the list of stored records with filtering and pagination
// (GET /logs)
func (h *Handler) GetLogs(c *gin.Context, params v1.GetLogsParams) {
	// Parse pagination
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = *params.PageSize
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	result, err := h.logsSrv.List(c.Request.Context(), services.LogListParams{
		Partitions: params.Partitions,
		Kinds:      params.Kinds,
		Locations:  params.Locations,
		Limit:      uint64(pageSize),
		Offset:     uint64((page - 1) * pageSize),
	})
	if err != nil {
		zap.S().Named("logs_handler").Errorw("failed to list records", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to list records"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	entries := make([]v1.LogEntry, 0, len(result.Entries))
	for _, row := range result.Entries {
		entries = append(entries, v1.NewLogEntryFromRow(row))
	}

	c.JSON(http.StatusOK, v1.LogListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Entries:   entries,
	})
}
