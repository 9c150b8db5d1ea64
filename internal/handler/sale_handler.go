package handler

import (
	"errors"
	"net/http"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	checkoutService service.CheckoutService
	tokens          middleware.TokenParser
}

func NewSaleHandler(checkoutService service.CheckoutService, tokens middleware.TokenParser) *SaleHandler {
	return &SaleHandler{checkoutService: checkoutService, tokens: tokens}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	sales.Use(middleware.RequireAuth(h.tokens))
	{
		sales.GET("", h.GetSales)
		sales.GET("/:id", h.GetSale)
		sales.POST("", h.CompleteSale)
	}
}

// GetSales lists sales, newest first
// @Summary      Get sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Sale}
// @Router       /api/sales [get]
func (h *SaleHandler) GetSales(c *gin.Context) {
	sales, err := h.checkoutService.GetSales(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sales))
}

// GetSale returns one sale
// @Summary      Get sale
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=model.Sale}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.checkoutService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// CompleteSale records a sale and decrements stock
// @Summary      Complete sale
// @Description  When the sale is recorded but stock cannot be applied the response is 409 and carries the sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.SaleInput  true  "Sale"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response{data=model.Sale}
// @Router       /api/sales [post]
func (h *SaleHandler) CompleteSale(c *gin.Context) {
	var req model.SaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sale, err := h.checkoutService.CompleteSale(c.Request.Context(), req)
	if err != nil {
		var notApplied *service.StockNotAppliedError
		if errors.As(err, &notApplied) {
			c.JSON(http.StatusConflict, response.Partial(http.StatusConflict, err.Error(), sale))
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}
