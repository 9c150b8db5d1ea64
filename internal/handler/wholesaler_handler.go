package handler

import (
	"net/http"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type WholesalerHandler struct {
	wholesalerService service.WholesalerService
	tokens            middleware.TokenParser
}

func NewWholesalerHandler(wholesalerService service.WholesalerService, tokens middleware.TokenParser) *WholesalerHandler {
	return &WholesalerHandler{wholesalerService: wholesalerService, tokens: tokens}
}

func (h *WholesalerHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/wholesalers")
	group.Use(middleware.RequireRole(h.tokens, model.RoleAdmin))
	{
		group.GET("", h.GetWholesalers)
		group.POST("", h.CreateWholesaler)
		group.PUT("/:id", h.UpdateWholesaler)
		group.DELETE("/:id", h.DeleteWholesaler)
	}
}

// GetWholesalers lists suppliers
// @Summary      Get wholesalers
// @Tags         wholesalers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Wholesaler}
// @Failure      403  {object}  response.Response
// @Router       /api/wholesalers [get]
func (h *WholesalerHandler) GetWholesalers(c *gin.Context) {
	list, err := h.wholesalerService.GetWholesalers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CreateWholesaler
// @Summary      Create wholesaler
// @Tags         wholesalers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.WholesalerInput  true  "Wholesaler"
// @Success      201      {object}  response.Response{data=model.Wholesaler}
// @Failure      400      {object}  response.Response
// @Router       /api/wholesalers [post]
func (h *WholesalerHandler) CreateWholesaler(c *gin.Context) {
	var req model.WholesalerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := h.wholesalerService.CreateWholesaler(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, w))
}

// UpdateWholesaler
// @Summary      Update wholesaler
// @Tags         wholesalers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Wholesaler ID"
// @Param        payload  body      model.WholesalerUpdate  true  "Changes"
// @Success      200      {object}  response.Response{data=model.Wholesaler}
// @Failure      404      {object}  response.Response
// @Router       /api/wholesalers/{id} [put]
func (h *WholesalerHandler) UpdateWholesaler(c *gin.Context) {
	var req model.WholesalerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := h.wholesalerService.UpdateWholesaler(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, w))
}

// DeleteWholesaler
// @Summary      Delete wholesaler
// @Tags         wholesalers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Wholesaler ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/wholesalers/{id} [delete]
func (h *WholesalerHandler) DeleteWholesaler(c *gin.Context) {
	if err := h.wholesalerService.DeleteWholesaler(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Wholesaler deleted successfully"))
}
