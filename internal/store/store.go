// Package store defines the data-access contract shared by the local and remote
// backends, plus the record builders both of them use.
package store

import (
	"context"
	"time"

	"retailpos/internal/model"
)

// DefaultLowStockThreshold applies to every creation path when the caller
// leaves the threshold unset.
const DefaultLowStockThreshold = model.DefaultLowStockThreshold

// DataStore is the full operation set every backend answers.
type DataStore interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in model.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	// GetLowStockProducts returns products at or below their threshold, lowest stock first.
	GetLowStockProducts(ctx context.Context) ([]model.Product, error)
	// GetProductsExpiringBefore returns dated products expiring at or before t, soonest first.
	GetProductsExpiringBefore(ctx context.Context, t time.Time) ([]model.Product, error)

	GetWholesalers(ctx context.Context) ([]model.Wholesaler, error)
	CreateWholesaler(ctx context.Context, in model.WholesalerInput) (*model.Wholesaler, error)
	UpdateWholesaler(ctx context.Context, id string, in model.WholesalerUpdate) (*model.Wholesaler, error)
	DeleteWholesaler(ctx context.Context, id string) (bool, error)

	GetSales(ctx context.Context) ([]model.Sale, error)
	GetSaleByID(ctx context.Context, id string) (*model.Sale, error)
	CreateSale(ctx context.Context, in model.SaleInput) (*model.Sale, error)
	// GetSalesBetween returns sales created in [from, to), newest first.
	GetSalesBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)

	GetStockAdjustments(ctx context.Context) ([]model.StockAdjustment, error)
	CreateStockAdjustment(ctx context.Context, in model.StockAdjustmentInput) (*model.StockAdjustment, error)

	// UpdateProductStock applies a signed delta. It returns false without
	// writing when the product is missing or the result would be negative.
	UpdateProductStock(ctx context.Context, productID string, delta int) (bool, error)
	// UpdateProductStocks applies each change independently and in order.
	// Earlier changes stay applied when a later one fails.
	UpdateProductStocks(ctx context.Context, changes []model.StockChange) (bool, error)

	GetCurrentUser(ctx context.Context) (*model.User, error)
	IsAdmin(ctx context.Context) (bool, error)
	GetTodaysRevenue(ctx context.Context) (float64, error)
}

// AuditStore is implemented by backends that can persist the audit trail.
type AuditStore interface {
	CreateAuditEntry(ctx context.Context, in model.AuditEntryInput) (*model.AuditEntry, error)
	// GetAuditTrail returns at most model.MaxAuditEntries rows, newest first.
	GetAuditTrail(ctx context.Context) ([]model.AuditEntry, error)
}

// Identity resolves the acting user for an operation.
type Identity interface {
	CurrentSessionIdentity(ctx context.Context) string
	CurrentUserProfile(ctx context.Context) *model.User
	RequireUser(ctx context.Context) (*model.User, error)
}
