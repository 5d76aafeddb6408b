package handler

import (
	"net/http"

	"invoicing/internal/service"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/monthly", h.GetMonthlyReport)
	}
}

// GetMonthlyReport returns all non-archived invoices of a month for spreadsheet export
// @Summary      Monthly revenue report
// @Description  Unpaginated reduced-field rows, sorted by buyer name then date
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        month  query     string  true  "Month (YYYY-MM)"
// @Success      200    {object}  response.Response{data=service.MonthlyReport}
// @Failure      400    {object}  response.Response
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	report, err := h.reportService.GetMonthlyReport(c.Request.Context(), c.Query("month"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
