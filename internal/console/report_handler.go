package console

import (
	"net/http"

	"github.com/Alejano1/GestInvLab-proyecto/internal/reports"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	responder
	service *reports.Service
}

func NewReportHandler(store *session.Store, service *reports.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		responder: responder{store: store, logger: logger},
		service:   service,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reportes", h.Generate)
	router.GET("/reportes/export.csv", h.ExportCSV)
	router.GET("/reportes/export.xlsx", h.ExportXLSX)
}

func (h *ReportHandler) Generate(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var filter reports.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter", "details": err.Error()})
		return
	}

	done, err := ws.Begin(string(session.ScreenReports))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer done()

	movements, err := h.service.Generate(c.Request.Context(), ws, &ws.Reports, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := gin.H{"rows": h.service.Rows(movements), "movements": len(movements)}
	if len(movements) == 0 {
		response["message"] = "No movements match these filters."
	}
	c.JSON(http.StatusOK, response)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	data, err := h.service.ExportCSV(&ws.Reports)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+reports.CSVFilename+"\"")
	c.Data(http.StatusOK, csvContentType, data)
}

func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	data, err := h.service.ExportXLSX(&ws.Reports)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+reports.XLSXFilename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(http.StatusOK, xlsxContentType, data)
}
