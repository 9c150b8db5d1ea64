package service

import (
	"context"
	"log"

	"retailpos/internal/model"
	"retailpos/pkg/pagination"
)

type clientInfoKey struct{}

type clientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo records the caller's address and user agent for audit entries.
func WithClientInfo(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, clientInfo{IP: ip, UserAgent: userAgent})
}

func clientInfoFrom(ctx context.Context) clientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(clientInfo)
	return info
}

type AuditLogPage struct {
	Items []model.AuditEntry `json:"items"`
	Total int                `json:"total"`
}

// AuditService writes audit entries on behalf of the other services. Writes
// are best-effort: failures are logged and never fail the calling operation.
type AuditService interface {
	LogLogin(ctx context.Context, user *model.User)
	LogSale(ctx context.Context, sale *model.Sale)
	LogInventoryAdd(ctx context.Context, product *model.Product)
	LogInventoryEdit(ctx context.Context, product *model.Product, changes map[string]interface{})
	LogStockAdjustment(ctx context.Context, adj *model.StockAdjustment)
	GetAuditLogs(ctx context.Context, params pagination.Params) (AuditLogPage, error)
}

type auditService struct {
	store AuditBackend
}

// AuditBackend is the subset of Store the audit logger needs.
type AuditBackend interface {
	IsAdmin(ctx context.Context) (bool, error)
	GetCurrentUser(ctx context.Context) (*model.User, error)
	CreateAuditEntry(ctx context.Context, in model.AuditEntryInput) (*model.AuditEntry, error)
	GetAuditTrail(ctx context.Context) ([]model.AuditEntry, error)
}

// NewAuditService creates a new AuditService instance
func NewAuditService(store AuditBackend) AuditService {
	return &auditService{store: store}
}

// logEvent snapshots the actor. Without a resolvable actor nothing is written.
func (s *auditService) logEvent(ctx context.Context, action string, details map[string]interface{}, actor *model.User) {
	if actor == nil {
		user, err := s.store.GetCurrentUser(ctx)
		if err != nil {
			log.Printf("[audit] resolving actor for %s failed: %v", action, err)
			return
		}
		actor = user
	}
	if actor == nil {
		return
	}

	in := model.AuditEntryInput{
		UserID:   &actor.ID,
		UserName: actor.DisplayName(),
		UserRole: actor.Role,
		Action:   action,
		Details:  details,
	}
	if info := clientInfoFrom(ctx); info.IP != "" {
		ip := info.IP
		in.IPAddress = &ip
	}
	if _, err := s.store.CreateAuditEntry(ctx, in); err != nil {
		log.Printf("[audit] failed to log %s: %v", action, err)
	}
}

func (s *auditService) LogLogin(ctx context.Context, user *model.User) {
	info := clientInfoFrom(ctx)
	userAgent := info.UserAgent
	if userAgent == "" {
		userAgent = "Unknown"
	}
	s.logEvent(ctx, model.ActionLogin, map[string]interface{}{
		"ipAddress": info.IP,
		"userAgent": userAgent,
	}, user)
}

func (s *auditService) LogSale(ctx context.Context, sale *model.Sale) {
	items := make([]map[string]interface{}, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, map[string]interface{}{
			"productId": item.ProductID,
			"name":      item.Name,
			"quantity":  item.Quantity,
			"price":     item.Price,
		})
	}
	s.logEvent(ctx, model.ActionSale, map[string]interface{}{
		"saleId":    sale.ID,
		"total":     sale.Total,
		"itemCount": len(sale.Items),
		"items":     items,
	}, nil)
}

func (s *auditService) LogInventoryAdd(ctx context.Context, product *model.Product) {
	s.logEvent(ctx, model.ActionInventoryAdd, map[string]interface{}{
		"productId":   product.ID,
		"productName": product.Name,
		"category":    product.Category,
		"price":       product.Price,
		"stock":       product.Stock,
	}, nil)
}

func (s *auditService) LogInventoryEdit(ctx context.Context, product *model.Product, changes map[string]interface{}) {
	s.logEvent(ctx, model.ActionInventoryEdit, map[string]interface{}{
		"productId":   product.ID,
		"productName": product.Name,
		"changes":     changes,
	}, nil)
}

func (s *auditService) LogStockAdjustment(ctx context.Context, adj *model.StockAdjustment) {
	productID := ""
	if adj.ProductID != nil {
		productID = *adj.ProductID
	}
	s.logEvent(ctx, model.ActionStockAdjustment, map[string]interface{}{
		"productId":   productID,
		"productName": adj.ProductName,
		"quantity":    adj.Quantity,
		"reason":      adj.Reason,
	}, nil)
}

// GetAuditLogs pages through the newest MaxAuditEntries entries. Admin-only.
func (s *auditService) GetAuditLogs(ctx context.Context, params pagination.Params) (AuditLogPage, error) {
	if err := requireAdmin(ctx, s.store); err != nil {
		return AuditLogPage{}, err
	}

	entries, err := s.store.GetAuditTrail(ctx)
	if err != nil {
		return AuditLogPage{}, err
	}

	start, end := params.Window(len(entries))
	return AuditLogPage{Items: entries[start:end], Total: len(entries)}, nil
}
