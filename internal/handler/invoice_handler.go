package handler

import (
	"net/http"

	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/check-number", h.CheckNumber)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id/status", h.UpdateStatus)
		invoices.PUT("/:id/archive", h.ArchiveInvoice)
		invoices.GET("/:id/status-logs", h.ListStatusLogs)
		invoices.GET("/:id/print-layout", h.GetPrintLayout)
		invoices.GET("/:id/pdf", h.DownloadPDF)
	}
}

// CreateInvoice creates a new invoice with its line items
// @Summary      Create invoice
// @Description  Creates an invoice; totals and amount-in-words are computed server-side
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// GetInvoice returns a single invoice with its items
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ListInvoices returns a filtered, paginated invoice list
// @Summary      List invoices
// @Description  Archived invoices are excluded unless status=archived or status=all is given
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        page        query     int     false  "Page number (default: 1)"
// @Param        limit       query     int     false  "Items per page (default: 20)"
// @Param        buyer_id    query     string  false  "Filter by buyer reference"
// @Param        product_id  query     string  false  "Filter by product appearing in line items"
// @Param        q           query     string  false  "Invoice number substring (case-insensitive)"
// @Param        status      query     string  false  "pending, paid, archived or all"
// @Param        date_from   query     string  false  "Inclusive start date (YYYY-MM-DD)"
// @Param        date_to     query     string  false  "Inclusive end date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.InvoiceFilter{
		BuyerID:   c.Query("buyer_id"),
		ProductID: c.Query("product_id"),
		Number:    c.Query("q"),
		Status:    c.Query("status"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Page:      params.Page,
		Limit:     params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
		"pages":    pagination.Pages(total, params.Limit),
	}))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus flips an invoice between pending and paid
// @Summary      Update invoice status
// @Description  Target must be pending or paid; archiving has its own endpoint
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Invoice ID"
// @Param        payload  body      updateStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ArchiveInvoice archives an invoice, freeing its number for reuse
// @Summary      Archive invoice
// @Description  Terminal: an archived invoice cannot change status again
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/archive [put]
func (h *InvoiceHandler) ArchiveInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.ArchiveInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// CheckNumber reports whether a non-archived invoice already holds a number
// @Summary      Check invoice number
// @Description  Advisory check used by the form; creation is still guarded by a unique index
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        number  query     string  true  "Candidate invoice number"
// @Success      200     {object}  response.Response
// @Router       /api/invoices/check-number [get]
func (h *InvoiceHandler) CheckNumber(c *gin.Context) {
	exists, err := h.invoiceService.CheckNumber(c.Request.Context(), c.Query("number"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"exists": exists,
	}))
}

// ListStatusLogs returns the append-only status history of an invoice
// @Summary      List status logs
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=[]service.StatusLogResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/status-logs [get]
func (h *InvoiceHandler) ListStatusLogs(c *gin.Context) {
	logs, err := h.invoiceService.ListStatusLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// GetPrintLayout returns the page descriptors the print preview renders from
// @Summary      Get print layout
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=[]printer.Page}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/print-layout [get]
func (h *InvoiceHandler) GetPrintLayout(c *gin.Context) {
	pages, err := h.invoiceService.GetPrintLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pages))
}

// DownloadPDF streams the invoice as an A4 PDF
// @Summary      Download invoice PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	pdf, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
