// Package remote implements the data store on the hosted Postgres database.
// Every call runs in a transaction that first binds the caller's identity,
// which row-level security policies read.
package remote

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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	tx          repository.TransactionManager
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
		tx:          newSessionManager(db),
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

// runInSession runs fn in a transaction bound to the current session subject.
func (s *Store) runInSession(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = withSubject(ctx, s.identity.CurrentSessionIdentity(ctx))
	return s.tx.RunInTx(ctx, fn)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func newID() string {
	return uuid.NewString()
}

// Products

func (s *Store) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.products.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", mapError(err))
	}
	return products, nil
}

func (s *Store) GetLowStockProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.products.ListLowStock(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", mapError(err))
	}
	return products, nil
}

func (s *Store) GetProductsExpiringBefore(ctx context.Context, t time.Time) ([]model.Product, error) {
	var products []model.Product
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.products.ListExpiringBefore(ctx, t)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring products: %w", mapError(err))
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product *model.Product
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.products.FindByID(ctx, id)
		return err
	})
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

	product := store.NewProduct(newID(), in, actor, s.timestamp())
	err = s.runInSession(ctx, func(ctx context.Context) error {
		return s.products.Create(ctx, &product)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", mapError(err))
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, in model.ProductUpdate) (*model.Product, error) {
	var product *model.Product
	err := s.runInSession(ctx, func(ctx context.Context) error {
		ok, err := s.products.UpdateFields(ctx, id, in.Fields(), s.timestamp())
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrNotFound
		}
		product, err = s.products.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, mapError(err))
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.products.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete product %s: %w", id, mapError(err))
	}
	return deleted, nil
}

// Wholesalers

func (s *Store) GetWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	var wholesalers []model.Wholesaler
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		wholesalers, err = s.wholesalers.List(ctx)
		return err
	})
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

	wholesaler := store.NewWholesaler(newID(), in, actor, s.timestamp())
	err = s.runInSession(ctx, func(ctx context.Context) error {
		return s.wholesalers.Create(ctx, &wholesaler)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wholesaler: %w", mapError(err))
	}
	return &wholesaler, nil
}

func (s *Store) UpdateWholesaler(ctx context.Context, id string, in model.WholesalerUpdate) (*model.Wholesaler, error) {
	var wholesaler *model.Wholesaler
	err := s.runInSession(ctx, func(ctx context.Context) error {
		ok, err := s.wholesalers.UpdateFields(ctx, id, in.Fields(), s.timestamp())
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrNotFound
		}
		wholesaler, err = s.wholesalers.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update wholesaler %s: %w", id, mapError(err))
	}
	return wholesaler, nil
}

func (s *Store) DeleteWholesaler(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.wholesalers.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete wholesaler %s: %w", id, mapError(err))
	}
	return deleted, nil
}

// Sales

func (s *Store) GetSales(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		sales, err = s.sales.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", mapError(err))
	}
	return sales, nil
}

func (s *Store) GetSalesBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		sales, err = s.sales.ListBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", mapError(err))
	}
	return sales, nil
}

func (s *Store) GetSaleByID(ctx context.Context, id string) (*model.Sale, error) {
	var sale *model.Sale
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.sales.FindByID(ctx, id)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale %s: %w", id, mapError(err))
	}
	return sale, nil
}

func (s *Store) CreateSale(ctx context.Context, in model.SaleInput) (*model.Sale, error) {
	actor, err := s.identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := store.NewSale(newID(), in, actor, s.timestamp())
	if err != nil {
		return nil, err
	}
	err = s.runInSession(ctx, func(ctx context.Context) error {
		return s.sales.Create(ctx, &sale)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", mapError(err))
	}
	return &sale, nil
}

// Stock

func (s *Store) GetStockAdjustments(ctx context.Context) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		adjustments, err = s.adjustments.List(ctx)
		return err
	})
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

	adj := store.NewStockAdjustment(newID(), in, actor, s.timestamp())
	err = s.runInSession(ctx, func(ctx context.Context) error {
		return s.adjustments.Create(ctx, &adj)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stock adjustment: %w", mapError(err))
	}
	return &adj, nil
}

// UpdateProductStock relies on the conditional update being a single
// statement, which Postgres applies atomically per row.
func (s *Store) UpdateProductStock(ctx context.Context, productID string, delta int) (bool, error) {
	var ok bool
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		ok, err = s.products.AdjustStock(ctx, productID, delta, s.timestamp())
		return err
	})
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
		log.Printf("[remote] %d of %d stock changes failed", len(errs), len(changes))
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

func (s *Store) GetTodaysRevenue(ctx context.Context) (float64, error) {
	from, to := dateutil.DayBounds(s.now())
	var summary repository.SalesSummary
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		summary, err = s.stats.SumTotalsBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return 0, mapError(err)
	}
	return summary.Revenue, nil
}

// Audit

func (s *Store) CreateAuditEntry(ctx context.Context, in model.AuditEntryInput) (*model.AuditEntry, error) {
	entry, err := store.NewAuditEntry(newID(), in, s.identity.CurrentUserProfile(ctx), s.timestamp())
	if err != nil {
		return nil, err
	}
	err = s.runInSession(ctx, func(ctx context.Context) error {
		return s.audit.Log(ctx, &entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", mapError(err))
	}
	return &entry, nil
}

func (s *Store) GetAuditTrail(ctx context.Context) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := s.runInSession(ctx, func(ctx context.Context) error {
		var err error
		entries, err = s.audit.List(ctx, model.MaxAuditEntries)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", mapError(err))
	}
	return entries, nil
}
