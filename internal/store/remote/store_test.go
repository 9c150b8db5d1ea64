package remote

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/store"
	"retailpos/internal/store/storetest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openDB migrates the hosted schema onto a sqlite file. Row-level security is
// Postgres-only, so these tests cover the data paths, not the policies.
// Immediate transactions with a busy timeout let concurrent writers queue
// instead of failing with SQLITE_BUSY.
func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remote.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, Migrate(context.Background(), db, true))
	return db
}

func newTestStore(t *testing.T, role string) (*Store, *model.User) {
	t.Helper()
	db := openDB(t)
	now := time.Now().UTC()
	user := &model.User{ID: newID(), Username: "u-" + role, Name: "Remote " + role, Role: role, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewProfileSource(db).CreateProfile(context.Background(), user))
	return NewStore(db, storetest.Identity{User: user}), user
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := openDB(t)
	for _, table := range []string{"users", "products", "wholesalers", "sales", "stock_adjustments", "audit_trail"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	// Running twice is safe.
	require.NoError(t, Migrate(context.Background(), db, false))
}

func TestPolicyStatements(t *testing.T) {
	for _, p := range policies {
		stmts := p.statements()
		require.Len(t, stmts, 2)
		assert.True(t, strings.HasPrefix(stmts[0], "DROP POLICY IF EXISTS "+p.name))
		assert.Contains(t, stmts[1], "ON "+p.table+" FOR "+p.command)
		if p.command == "INSERT" {
			assert.NotContains(t, stmts[1], "USING")
			assert.Contains(t, stmts[1], "WITH CHECK")
		}
	}
}

func TestAdminOnlyPolicies(t *testing.T) {
	adminOnly := map[string]bool{}
	for _, p := range policies {
		if strings.Contains(p.using+p.check, "u.role = 'admin'") {
			adminOnly[p.name] = true
		}
	}
	assert.True(t, adminOnly["wholesalers_insert_admin"])
	assert.True(t, adminOnly["audit_trail_read_admin"])
	assert.False(t, adminOnly["sales_insert"])
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.ErrorIs(t, mapError(gorm.ErrRecordNotFound), store.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505", Message: "duplicate key"}), store.ErrConstraint)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23514", Message: "check violation"}), store.ErrConstraint)

	denied := &pgconn.PgError{Code: "42501", Message: "row-level security"}
	assert.False(t, errors.Is(mapError(denied), store.ErrConstraint))
	assert.Same(t, denied, mapError(denied))
}

func TestSubjectContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", subjectFrom(ctx))
	assert.Equal(t, "u-1", subjectFrom(withSubject(ctx, "u-1")))
}

func TestFetchProfiles(t *testing.T) {
	db := openDB(t)
	source := NewProfileSource(db)
	ctx := context.Background()

	none, err := source.FetchProfiles(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, source.CreateProfile(ctx, &model.User{ID: "u-1", Username: "ana", Name: "Ana", Role: model.RoleStaff}))
	found, err := source.FetchProfiles(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ana", found[0].Username)
}

func TestProductAndStockFlow(t *testing.T) {
	s, user := newTestStore(t, model.RoleStaff)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, model.ProductInput{Name: "Beans", Price: 4, Stock: 10})
	require.NoError(t, err)
	require.NotNil(t, p.CreatedBy)
	assert.Equal(t, user.ID, *p.CreatedBy)
	assert.Equal(t, store.DefaultLowStockThreshold, p.LowStockThreshold)

	ok, err := s.UpdateProductStock(ctx, p.ID, -6)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.UpdateProductStock(ctx, p.ID, -6)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)

	missing, err := s.GetProductByID(ctx, newID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	name := "Black beans"
	updated, err := s.UpdateProduct(ctx, p.ID, model.ProductUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, err = s.UpdateProduct(ctx, newID(), model.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := s.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUpdateProductStock_ConcurrentDecrements(t *testing.T) {
	s, _ := newTestStore(t, model.RoleStaff)
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, model.ProductInput{Name: "Milk", Price: 1, Stock: 10})
	require.NoError(t, err)

	var applied atomic.Int32
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.UpdateProductStock(ctx, p.ID, -3)
			if err != nil {
				errs <- err
				return
			}
			if ok {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, int32(3), applied.Load())
	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestDashboardQueries(t *testing.T) {
	s, _ := newTestStore(t, model.RoleStaff)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.CreateProduct(ctx, model.ProductInput{Name: "Low", Price: 1, Stock: 2})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, model.ProductInput{Name: "Soon", Price: 1, Stock: 50, ExpiryDate: model.DateOf(now.Add(72 * time.Hour))})
	require.NoError(t, err)

	low, err := s.GetLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Low", low[0].Name)

	expiring, err := s.GetProductsExpiringBefore(ctx, now.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "Soon", expiring[0].Name)

	_, err = s.CreateSale(ctx, model.SaleInput{Items: []model.SaleItem{{ProductID: "x", Name: "X", Price: 3, Quantity: 1}}})
	require.NoError(t, err)
	sales, err := s.GetSalesBetween(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestSaleAuditAndRevenue(t *testing.T) {
	s, _ := newTestStore(t, model.RoleAdmin)
	ctx := context.Background()

	sale, err := s.CreateSale(ctx, model.SaleInput{
		Items:    []model.SaleItem{{ProductID: "p1", Name: "Tea", Price: 100, Quantity: 3}},
		Discount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 285.0, sale.Total)

	stored, err := s.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 1)

	revenue, err := s.GetTodaysRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 285.0, revenue, 0.001)

	_, err = s.CreateAuditEntry(ctx, model.AuditEntryInput{Action: model.ActionSale, Details: map[string]interface{}{"saleId": sale.ID}})
	require.NoError(t, err)
	trail, err := s.GetAuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, sale.ID, trail[0].Details["saleId"])

	admin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestWholesalerRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, model.RoleAdmin)
	ctx := context.Background()

	w, err := s.CreateWholesaler(ctx, model.WholesalerInput{Name: "Metro", Contact: "555-0101", Products: []string{"A", "B"}})
	require.NoError(t, err)

	list, err := s.GetWholesalers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StringList{"A", "B"}, list[0].Products)

	deleted, err := s.DeleteWholesaler(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestCreateRequiresUser(t *testing.T) {
	s := NewStore(openDB(t), storetest.Identity{})

	_, err := s.CreateProduct(context.Background(), model.ProductInput{Name: "Tea", Price: 1})
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
	_, err = s.CreateSale(context.Background(), model.SaleInput{Items: []model.SaleItem{{ProductID: "x", Price: 1, Quantity: 1}}})
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
}
