package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	tokens            middleware.TokenParser
}

func NewStatisticsHandler(statisticsService service.StatisticsService, tokens middleware.TokenParser) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, tokens: tokens}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/dashboard")
	group.Use(middleware.RequireAuth(h.tokens))
	{
		group.GET("", h.GetSummary)
		group.GET("/low-stock", h.GetLowStock)
		group.GET("/expiring", h.GetExpiringSoon)
		group.GET("/top-products", h.GetTopProducts)
	}

	revenue := group.Group("/revenue", middleware.RequireRole(h.tokens, model.RoleAdmin))
	{
		revenue.GET("/today", h.GetTodaysRevenue)
		revenue.GET("/daily", h.GetDailyRevenue)
	}
}

// GetSummary returns the dashboard; revenue is omitted for non-admins
// @Summary      Dashboard summary
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardSummary}
// @Router       /api/dashboard [get]
func (h *StatisticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.statisticsService.GetSummary(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetLowStock
// @Summary      Low stock products
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Product}
// @Router       /api/dashboard/low-stock [get]
func (h *StatisticsHandler) GetLowStock(c *gin.Context) {
	products, err := h.statisticsService.GetLowStock(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetExpiringSoon lists products expiring within 30 days
// @Summary      Expiring products
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Product}
// @Router       /api/dashboard/expiring [get]
func (h *StatisticsHandler) GetExpiringSoon(c *gin.Context) {
	products, err := h.statisticsService.GetExpiringSoon(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetTodaysRevenue is admin-only
// @Summary      Today's revenue
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      403  {object}  response.Response
// @Router       /api/dashboard/revenue/today [get]
func (h *StatisticsHandler) GetTodaysRevenue(c *gin.Context) {
	revenue, err := h.statisticsService.GetTodaysRevenue(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"revenue": revenue}))
}

// GetDailyRevenue breaks one month's revenue down by day
// @Summary      Daily revenue for a month
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        month  query     string  false  "Month as YYYY-MM (default current month)"
// @Success      200    {object}  response.Response{data=model.MonthlyRevenue}
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /api/dashboard/revenue/daily [get]
func (h *StatisticsHandler) GetDailyRevenue(c *gin.Context) {
	month := time.Now()
	if v := c.Query("month"); v != "" {
		parsed, err := time.ParseInLocation("2006-01", v, time.Local)
		if err != nil {
			badRequest(c, errors.New("month must be YYYY-MM"))
			return
		}
		month = parsed
	}

	report, err := h.statisticsService.GetMonthlyRevenue(c.Request.Context(), month)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetTopProducts ranks products by units sold
// @Summary      Top products
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Number of products (default 5)"
// @Success      200    {object}  response.Response{data=[]model.ProductSales}
// @Router       /api/dashboard/top-products [get]
func (h *StatisticsHandler) GetTopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	top, err := h.statisticsService.GetTopProducts(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, top))
}
