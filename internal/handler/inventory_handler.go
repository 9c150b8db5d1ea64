package handler

import (
	"net/http"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	tokens           middleware.TokenParser
}

func NewInventoryHandler(inventoryService service.InventoryService, tokens middleware.TokenParser) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, tokens: tokens}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")

	inventory := api.Group("", middleware.RequireAuth(h.tokens))
	{
		inventory.GET("/products", h.GetProducts)
		inventory.GET("/products/:id", h.GetProduct)
		inventory.POST("/products", h.CreateProduct)
		inventory.PUT("/products/:id", h.UpdateProduct)
		inventory.POST("/products/:id/stock", h.AdjustStock)
		inventory.POST("/products/bulk", h.BulkCreate)
		inventory.GET("/stock-adjustments", h.GetStockAdjustments)
	}

	admin := api.Group("", middleware.RequireRole(h.tokens, model.RoleAdmin))
	{
		admin.DELETE("/products/:id", h.DeleteProduct)
		admin.POST("/products/batch-adjust", h.BatchAdjust)
		admin.POST("/products/batch-delete", h.BatchDelete)
	}
}

// GetProducts lists the catalog, newest first
// @Summary      Get products
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200    {object}  response.Response{data=[]model.Product}
// @Failure      401    {object}  response.Response
// @Router       /api/products [get]
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	products, err := h.inventoryService.GetProducts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetProduct returns one product
// @Summary      Get product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// CreateProduct creates a new inventory product entry
// @Summary      Create product
// @Description  Missing category, packaging, image and threshold fall back to defaults
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.ProductInput  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req model.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct updates an existing product's metadata
// @Summary      Update product
// @Description  Only the fields present in the payload change
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Product ID"
// @Param        payload  body      model.ProductUpdate  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req model.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product
// @Summary      Delete product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Product deleted successfully"))
}

// AdjustStock applies a signed manual adjustment and records it in the ledger
// @Summary      Adjust stock
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Product ID"
// @Param        payload  body      service.AdjustStockRequest  true  "Adjustment"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      409      {object}  response.Response
// @Router       /api/products/{id}/stock [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventoryService.AdjustStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// BatchAdjust adds, subtracts or sets stock for several products
// @Summary      Batch stock adjustment
// @Description  Items are applied independently; failures are reported per product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BatchAdjustRequest  true  "Batch"
// @Success      200      {object}  response.Response{data=service.BatchResult}
// @Router       /api/products/batch-adjust [post]
func (h *InventoryHandler) BatchAdjust(c *gin.Context) {
	var req service.BatchAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.inventoryService.BatchAdjust(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// BulkCreate imports several products
// @Summary      Bulk create products
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BulkCreateRequest  true  "Products"
// @Success      200      {object}  response.Response{data=service.BatchResult}
// @Router       /api/products/bulk [post]
func (h *InventoryHandler) BulkCreate(c *gin.Context) {
	var req service.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result := h.inventoryService.BulkCreate(c.Request.Context(), req.Products)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// BatchDelete removes several products
// @Summary      Batch delete products
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BatchDeleteRequest  true  "IDs"
// @Success      200      {object}  response.Response{data=service.BatchResult}
// @Router       /api/products/batch-delete [post]
func (h *InventoryHandler) BatchDelete(c *gin.Context) {
	var req service.BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.inventoryService.BatchDelete(c.Request.Context(), req.ProductIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetStockAdjustments lists the stock ledger, newest first
// @Summary      Stock adjustment history
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.StockAdjustment}
// @Router       /api/stock-adjustments [get]
func (h *InventoryHandler) GetStockAdjustments(c *gin.Context) {
	adjustments, err := h.inventoryService.GetStockAdjustments(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, adjustments))
}
