package v1

import (
	"github.com/gin-gonic/gin"
)

// ServerInterface is the set of handlers the API expects. The concrete
// implementation lives in internal/handlers.
type ServerInterface interface {
	// (POST /entries)
	PushEntries(c *gin.Context)
	// (POST /entries/rescrape)
	TriggerRescrape(c *gin.Context)
	// (GET /logs)
	GetLogs(c *gin.Context, params GetLogsParams)
	// (GET /stats)
	GetStats(c *gin.Context)
	// (GET /forecast)
	GetForecast(c *gin.Context)
	// (GET /export)
	ExportDocument(c *gin.Context)
	// (GET /export/report)
	ExportReport(c *gin.Context)
	// (POST /import)
	ImportDocument(c *gin.Context)
}

// RegisterHandlers attaches the API routes to the given router group.
func RegisterHandlers(router *gin.RouterGroup, si ServerInterface) {
	router.POST("/entries", si.PushEntries)
	router.POST("/entries/rescrape", si.TriggerRescrape)
	router.GET("/logs", func(c *gin.Context) {
		var params GetLogsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(400, Error{Error: "invalid query parameters"})
			return
		}
		si.GetLogs(c, params)
	})
	router.GET("/stats", si.GetStats)
	router.GET("/forecast", si.GetForecast)
	router.GET("/export", si.ExportDocument)
	router.GET("/export/report", si.ExportReport)
	router.POST("/import", si.ImportDocument)
}
