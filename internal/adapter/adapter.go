// Package adapter is the single data-access entry point. It routes every call
// to the local or the remote store depending on the runtime environment.
package adapter

import (
	"context"
	"log"
	"sync"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/store"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// RemoteStore is what the remote backend must provide: the full operation
// set plus the audit trail, which is the fallback for every audit call.
type RemoteStore interface {
	store.DataStore
	store.AuditStore
}

// LocalLoader opens the local store. It is called at most once per Adapter.
type LocalLoader func(ctx context.Context) (store.DataStore, error)

// Adapter implements store.DataStore and store.AuditStore on top of whichever
// backend the environment selects.
type Adapter struct {
	env    Environment
	remote RemoteStore
	loader LocalLoader

	once     sync.Once
	local    store.DataStore
	fallback bool
}

var (
	_ store.DataStore  = (*Adapter)(nil)
	_ store.AuditStore = (*Adapter)(nil)
)

func New(env Environment, remote RemoteStore, loader LocalLoader) *Adapter {
	return &Adapter{env: env, remote: remote, loader: loader}
}

// loadLocal runs the loader once. A failure is logged and the adapter stays
// on the remote store for the rest of the process. The loader does not see
// the first caller's cancellation.
func (a *Adapter) loadLocal(ctx context.Context) {
	a.once.Do(func() {
		ctx := context.WithoutCancel(ctx)
		if a.loader == nil {
			log.Printf("[adapter] no local store configured, using remote")
			a.fallback = true
			return
		}
		local, err := a.loader(ctx)
		if err != nil {
			log.Printf("[adapter] local store unavailable, falling back to remote: %v", err)
			a.fallback = true
			return
		}
		a.local = local
		log.Printf("[adapter] using local store")
	})
}

func (a *Adapter) usingLocal(ctx context.Context) bool {
	if !a.env.UsesLocal() {
		return false
	}
	a.loadLocal(ctx)
	return !a.fallback && a.local != nil
}

func (a *Adapter) backend(ctx context.Context) store.DataStore {
	if a.usingLocal(ctx) {
		return a.local
	}
	return a.remote
}

// auditBackend returns the selected backend when it can store audit entries,
// otherwise the remote store.
func (a *Adapter) auditBackend(ctx context.Context) store.AuditStore {
	if as, ok := a.backend(ctx).(store.AuditStore); ok {
		return as
	}
	return a.remote
}

// Backend names the store answering calls: "local" or "remote".
func (a *Adapter) Backend(ctx context.Context) string {
	if a.usingLocal(ctx) {
		return BackendLocal
	}
	return BackendRemote
}

func (a *Adapter) Environment() Environment { return a.env }

func (a *Adapter) GetProducts(ctx context.Context) ([]model.Product, error) {
	return a.backend(ctx).GetProducts(ctx)
}

func (a *Adapter) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	return a.backend(ctx).GetProductByID(ctx, id)
}

func (a *Adapter) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	return a.backend(ctx).CreateProduct(ctx, in)
}

func (a *Adapter) UpdateProduct(ctx context.Context, id string, in model.ProductUpdate) (*model.Product, error) {
	return a.backend(ctx).UpdateProduct(ctx, id, in)
}

func (a *Adapter) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return a.backend(ctx).DeleteProduct(ctx, id)
}

func (a *Adapter) GetLowStockProducts(ctx context.Context) ([]model.Product, error) {
	return a.backend(ctx).GetLowStockProducts(ctx)
}

func (a *Adapter) GetProductsExpiringBefore(ctx context.Context, t time.Time) ([]model.Product, error) {
	return a.backend(ctx).GetProductsExpiringBefore(ctx, t)
}

func (a *Adapter) GetWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	return a.backend(ctx).GetWholesalers(ctx)
}

func (a *Adapter) CreateWholesaler(ctx context.Context, in model.WholesalerInput) (*model.Wholesaler, error) {
	return a.backend(ctx).CreateWholesaler(ctx, in)
}

func (a *Adapter) UpdateWholesaler(ctx context.Context, id string, in model.WholesalerUpdate) (*model.Wholesaler, error) {
	return a.backend(ctx).UpdateWholesaler(ctx, id, in)
}

func (a *Adapter) DeleteWholesaler(ctx context.Context, id string) (bool, error) {
	return a.backend(ctx).DeleteWholesaler(ctx, id)
}

func (a *Adapter) GetSales(ctx context.Context) ([]model.Sale, error) {
	return a.backend(ctx).GetSales(ctx)
}

func (a *Adapter) GetSalesBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	return a.backend(ctx).GetSalesBetween(ctx, from, to)
}

func (a *Adapter) GetSaleByID(ctx context.Context, id string) (*model.Sale, error) {
	return a.backend(ctx).GetSaleByID(ctx, id)
}

func (a *Adapter) CreateSale(ctx context.Context, in model.SaleInput) (*model.Sale, error) {
	return a.backend(ctx).CreateSale(ctx, in)
}

func (a *Adapter) GetStockAdjustments(ctx context.Context) ([]model.StockAdjustment, error) {
	return a.backend(ctx).GetStockAdjustments(ctx)
}

func (a *Adapter) CreateStockAdjustment(ctx context.Context, in model.StockAdjustmentInput) (*model.StockAdjustment, error) {
	return a.backend(ctx).CreateStockAdjustment(ctx, in)
}

func (a *Adapter) UpdateProductStock(ctx context.Context, productID string, delta int) (bool, error) {
	return a.backend(ctx).UpdateProductStock(ctx, productID, delta)
}

func (a *Adapter) UpdateProductStocks(ctx context.Context, changes []model.StockChange) (bool, error) {
	return a.backend(ctx).UpdateProductStocks(ctx, changes)
}

func (a *Adapter) GetCurrentUser(ctx context.Context) (*model.User, error) {
	return a.backend(ctx).GetCurrentUser(ctx)
}

func (a *Adapter) IsAdmin(ctx context.Context) (bool, error) {
	return a.backend(ctx).IsAdmin(ctx)
}

func (a *Adapter) GetTodaysRevenue(ctx context.Context) (float64, error) {
	return a.backend(ctx).GetTodaysRevenue(ctx)
}

func (a *Adapter) CreateAuditEntry(ctx context.Context, in model.AuditEntryInput) (*model.AuditEntry, error) {
	return a.auditBackend(ctx).CreateAuditEntry(ctx, in)
}

func (a *Adapter) GetAuditTrail(ctx context.Context) ([]model.AuditEntry, error) {
	return a.auditBackend(ctx).GetAuditTrail(ctx)
}
