package handler

import (
	"net/http"

	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type BuyerHandler struct {
	buyerService service.BuyerService
}

func NewBuyerHandler(buyerService service.BuyerService) *BuyerHandler {
	return &BuyerHandler{buyerService: buyerService}
}

func (h *BuyerHandler) RegisterRoutes(router *gin.RouterGroup) {
	buyers := router.Group("/api/buyers")
	{
		buyers.POST("", h.CreateBuyer)
		buyers.GET("", h.ListBuyers)
		buyers.GET("/:id", h.GetBuyer)
		buyers.PUT("/:id", h.UpdateBuyer)
	}
}

// CreateBuyer creates a new buyer
// @Summary      Create buyer
// @Tags         buyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBuyerRequest  true  "Create Buyer Payload"
// @Success      201      {object}  response.Response{data=service.BuyerResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/buyers [post]
func (h *BuyerHandler) CreateBuyer(c *gin.Context) {
	var req service.CreateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	buyer, err := h.buyerService.CreateBuyer(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, buyer))
}

// GetBuyer returns a single buyer by id
// @Summary      Get buyer
// @Tags         buyers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Buyer ID"
// @Success      200  {object}  response.Response{data=service.BuyerResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/buyers/{id} [get]
func (h *BuyerHandler) GetBuyer(c *gin.Context) {
	buyer, err := h.buyerService.GetBuyer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, buyer))
}

// ListBuyers returns paginated buyers with optional search
// @Summary      List buyers
// @Tags         buyers
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        search  query     string  false  "Search by name, GSTIN or phone"
// @Success      200     {object}  response.Response
// @Router       /api/buyers [get]
func (h *BuyerHandler) ListBuyers(c *gin.Context) {
	params := pagination.Parse(c)

	buyers, total, err := h.buyerService.ListBuyers(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"buyers": buyers,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
		"pages":  pagination.Pages(total, params.Limit),
	}))
}

// UpdateBuyer updates a buyer's editable fields
// @Summary      Update buyer
// @Tags         buyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Buyer ID"
// @Param        payload  body      service.UpdateBuyerRequest  true  "Update Buyer Payload"
// @Success      200      {object}  response.Response{data=service.BuyerResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/buyers/{id} [put]
func (h *BuyerHandler) UpdateBuyer(c *gin.Context) {
	var req service.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	buyer, err := h.buyerService.UpdateBuyer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, buyer))
}
