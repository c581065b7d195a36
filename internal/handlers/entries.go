package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/hannaddev/journal-tracker/api/v1"
	"github.com/hannaddev/journal-tracker/internal/models"
)

// PushEntries consumes one feed batch
// (POST /entries)
func (h *Handler) PushEntries(c *gin.Context) {
	var req v1.PushEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "empty batch"})
		return
	}

	entries := make([]models.RawEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, e.ToModel())
	}

	result, err := h.trackerSrv.HandleBatch(c.Request.Context(), entries)
	if err != nil {
		// Inserted records are held in memory; the next flush persists them.
		zap.S().Named("entries_handler").Errorw("batch flush failed", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to persist batch"})
		return
	}

	c.JSON(http.StatusOK, v1.NewBatchResponse(result))
}

// TriggerRescrape asks the feed observer to re-scrape immediately
// (POST /entries/rescrape)
func (h *Handler) TriggerRescrape(c *gin.Context) {
	if err := h.trackerSrv.TriggerRescrape(); err != nil {
		c.JSON(http.StatusConflict, v1.Error{Error: err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}
