package handler

import (
	"net/http"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/pagination"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	tokens       middleware.TokenParser
}

func NewAuditHandler(auditService service.AuditService, tokens middleware.TokenParser) *AuditHandler {
	return &AuditHandler{auditService: auditService, tokens: tokens}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireRole(h.tokens, model.RoleAdmin))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs pages through the audit trail, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]model.AuditEntry,meta=pagination.Meta}
// @Failure      403    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, err := h.auditService.GetAuditLogs(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, logs.Items, params.Meta(logs.Total)))
}
