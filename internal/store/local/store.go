package local

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/internal/store"
	"retailpos/pkg/dateutil"

	"gorm.io/gorm"
)

// Store answers every data operation from the embedded database.
type Store struct {
	products    repository.ProductRepository
	wholesalers repository.WholesalerRepository
	sales       repository.SaleRepository
	adjustments repository.StockAdjustmentRepository
	audit       repository.AuditRepository
	stats       repository.StatisticsRepository
	identity    store.Identity
	now         func() time.Time
}

var (
	_ store.DataStore  = (*Store)(nil)
	_ store.AuditStore = (*Store)(nil)
)

func NewStore(db *gorm.DB, identity store.Identity) *Store {
	return &Store{
		products:    repository.NewProductRepository(db),
		wholesalers: repository.NewWholesalerRepository(db),
		sales:       repository.NewSaleRepository(db),
		adjustments: repository.NewStockAdjustmentRepository(db),
		audit:       repository.NewAuditRepository(db),
		stats:       repository.NewStatisticsRepository(db),
		identity:    identity,
		now:         time.Now,
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// Products

func (s *Store) GetProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", mapError(err))
	}
	return products, nil
}

func (s *Store) GetLowStockProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", mapError(err))
	}
	return products, nil
}

func (s *Store) GetProductsExpiringBefore(ctx context.Context, t time.Time) ([]model.Product, error) {
	products, err := s.products.ListExpiringBefore(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring products: %w", mapError(err))
	}
	return products, nil
}

// GetProductByID returns nil, nil when the product does not exist.
func (s *Store) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, mapError(err))
	}
	return product, nil
}

func (s *Store) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	actor, err := s.identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	product := store.NewProduct(NewID(), in, actor, s.timestamp())
	if err := s.products.Create(ctx, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", mapError(err))
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, in model.ProductUpdate) (*model.Product, error) {
	ok, err := s.products.UpdateFields(ctx, id, in.Fields(), s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, mapError(err))
	}
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return s.GetProductByID(ctx, id)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	ok, err := s.products.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product %s: %w", id, mapError(err))
	}
	return ok, nil
}

// Wholesalers

func (s *Store) GetWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	wholesalers, err := s.wholesalers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wholesalers: %w", mapError(err))
	}
	return wholesalers, nil
}

func (s *Store) CreateWholesaler(ctx context.Context, in model.WholesalerInput) (*model.Wholesaler, error) {
	actor, err := s.identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	wholesaler := store.NewWholesaler(NewID(), in, actor, s.timestamp())
	if err := s.wholesalers.Create(ctx, &wholesaler); err != nil {
		return nil, fmt.Errorf("failed to create wholesaler: %w", mapError(err))
	}
	return &wholesaler, nil
}

func (s *Store) UpdateWholesaler(ctx context.Context, id string, in model.WholesalerUpdate) (*model.Wholesaler, error) {
	ok, err := s.wholesalers.UpdateFields(ctx, id, in.Fields(), s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("failed to update wholesaler %s: %w", id, mapError(err))
	}
	if !ok {
		return nil, fmt.Errorf("wholesaler %s: %w", id, store.ErrNotFound)
	}
	wholesaler, err := s.wholesalers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload wholesaler %s: %w", id, mapError(err))
	}
	return wholesaler, nil
}

func (s *Store) DeleteWholesaler(ctx context.Context, id string) (bool, error) {
	ok, err := s.wholesalers.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete wholesaler %s: %w", id, mapError(err))
	}
	return ok, nil
}

// Sales

func (s *Store) GetSales(ctx context.Context) ([]model.Sale, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", mapError(err))
	}
	return sales, nil
}

// GetSalesBetween returns sales created in [from, to).
func (s *Store) GetSalesBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	sales, err := s.sales.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", mapError(err))
	}
	return sales, nil
}

func (s *Store) GetSaleByID(ctx context.Context, id string) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale %s: %w", id, mapError(err))
	}
	return sale, nil
}

// CreateSale records the sale only. Stock is decremented separately.
func (s *Store) CreateSale(ctx context.Context, in model.SaleInput) (*model.Sale, error) {
	actor, err := s.identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := store.NewSale(NewID(), in, actor, s.timestamp())
	if err != nil {
		return nil, err
	}
	if err := s.sales.Create(ctx, &sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", mapError(err))
	}
	return &sale, nil
}

// Stock

func (s *Store) GetStockAdjustments(ctx context.Context) ([]model.StockAdjustment, error) {
	adjustments, err := s.adjustments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock adjustments: %w", mapError(err))
	}
	return adjustments, nil
}

func (s *Store) CreateStockAdjustment(ctx context.Context, in model.StockAdjustmentInput) (*model.StockAdjustment, error) {
	actor, err := s.identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	adj := store.NewStockAdjustment(NewID(), in, actor, s.timestamp())
	if err := s.adjustments.Create(ctx, &adj); err != nil {
		return nil, fmt.Errorf("failed to create stock adjustment: %w", mapError(err))
	}
	return &adj, nil
}

func (s *Store) UpdateProductStock(ctx context.Context, productID string, delta int) (bool, error) {
	ok, err := s.products.AdjustStock(ctx, productID, delta, s.timestamp())
	if err != nil {
		return false, fmt.Errorf("failed to update stock of %s: %w", productID, mapError(err))
	}
	return ok, nil
}

func (s *Store) UpdateProductStocks(ctx context.Context, changes []model.StockChange) (bool, error) {
	allOK, errs := store.ApplyStockChanges(changes, func(c model.StockChange) (bool, error) {
		return s.UpdateProductStock(ctx, c.ProductID, c.Delta)
	})
	if len(errs) > 0 {
		log.Printf("[local] %d of %d stock changes failed", len(errs), len(changes))
	}
	return allOK, errors.Join(errs...)
}

// Identity

func (s *Store) GetCurrentUser(ctx context.Context) (*model.User, error) {
	return s.identity.CurrentUserProfile(ctx), nil
}

func (s *Store) IsAdmin(ctx context.Context) (bool, error) {
	return s.identity.CurrentUserProfile(ctx).IsAdmin(), nil
}

// GetTodaysRevenue sums sale totals within the current local calendar day.
func (s *Store) GetTodaysRevenue(ctx context.Context) (float64, error) {
	from, to := dateutil.DayBounds(s.now())
	summary, err := s.stats.SumTotalsBetween(ctx, from, to)
	if err != nil {
		return 0, mapError(err)
	}
	return summary.Revenue, nil
}

// Audit

func (s *Store) CreateAuditEntry(ctx context.Context, in model.AuditEntryInput) (*model.AuditEntry, error) {
	entry, err := store.NewAuditEntry(NewID(), in, s.identity.CurrentUserProfile(ctx), s.timestamp())
	if err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", mapError(err))
	}
	return &entry, nil
}

func (s *Store) GetAuditTrail(ctx context.Context) ([]model.AuditEntry, error) {
	entries, err := s.audit.List(ctx, model.MaxAuditEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", mapError(err))
	}
	return entries, nil
}
