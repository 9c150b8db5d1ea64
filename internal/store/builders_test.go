package store

import (
	"errors"
	"testing"
	"time"

	"retailpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSaleTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.SaleItem
		discount float64
		want     SaleTotals
	}{
		{"no discount", []model.SaleItem{{ProductID: "a", Price: 100, Quantity: 3}}, 0, SaleTotals{300, 0, 300}},
		{"percentage", []model.SaleItem{{ProductID: "a", Price: 19.99, Quantity: 3}}, 10, SaleTotals{59.97, 6, 53.97}},
		{"full discount", []model.SaleItem{{ProductID: "a", Price: 5, Quantity: 2}}, 100, SaleTotals{10, 10, 0}},
		{"float cents", []model.SaleItem{{ProductID: "a", Price: 0.1, Quantity: 1}, {ProductID: "b", Price: 0.2, Quantity: 1}}, 0, SaleTotals{0.3, 0, 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSaleTotals(tt.items, tt.discount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeSaleTotals_Rejects(t *testing.T) {
	_, err := ComputeSaleTotals([]model.SaleItem{{ProductID: "a", Price: 1, Quantity: 1}}, 101)
	assert.ErrorIs(t, err, ErrConstraint)
	_, err = ComputeSaleTotals([]model.SaleItem{{ProductID: "a", Price: 1, Quantity: 0}}, 0)
	assert.ErrorIs(t, err, ErrConstraint)
	_, err = ComputeSaleTotals([]model.SaleItem{{ProductID: "a", Price: -1, Quantity: 1}}, 0)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestNewProduct_Defaults(t *testing.T) {
	now := time.Now().UTC()
	actor := &model.User{ID: "u1"}
	p := NewProduct("p1", model.ProductInput{Name: "Tea", Category: "  "}, actor, now)

	assert.Equal(t, model.DefaultCategory, p.Category)
	assert.Equal(t, model.DefaultPackaging, p.Packaging)
	assert.Equal(t, DefaultLowStockThreshold, p.LowStockThreshold)
	require.NotNil(t, p.Image)
	assert.Equal(t, model.DefaultImage, *p.Image)
	assert.Equal(t, "u1", *p.CreatedBy)

	zero := 0
	p = NewProduct("p2", model.ProductInput{Name: "Tea", LowStockThreshold: &zero}, nil, now)
	assert.Equal(t, 0, p.LowStockThreshold)
	assert.Nil(t, p.CreatedBy)
}

func TestNewSale_CashierName(t *testing.T) {
	actor := &model.User{ID: "u1", Username: "ana", Name: "Ana Lima"}
	items := []model.SaleItem{{ProductID: "a", Price: 1, Quantity: 1}}

	sale, err := NewSale("s1", model.SaleInput{Items: items}, actor, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", sale.UserName)
	assert.Equal(t, "u1", *sale.UserID)

	sale, err = NewSale("s2", model.SaleInput{Items: items, CashierName: " Till 2 "}, actor, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Till 2", sale.UserName)

	_, err = NewSale("s3", model.SaleInput{}, actor, time.Now())
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestNewStockAdjustment_EmptyProductID(t *testing.T) {
	empty := ""
	adj := NewStockAdjustment("a1", model.StockAdjustmentInput{ProductID: &empty, ProductName: "Tea", Quantity: -2, Reason: "damaged"}, nil, time.Now())
	assert.Nil(t, adj.ProductID)
	assert.Equal(t, -2, adj.Quantity)
}

func TestNewAuditEntry(t *testing.T) {
	now := time.Now().UTC()

	entry, err := NewAuditEntry("e1", model.AuditEntryInput{Action: model.ActionLogin}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "unknown", entry.UserName)
	assert.Equal(t, model.RoleStaff, entry.UserRole)
	assert.Nil(t, entry.UserID)
	assert.NotNil(t, entry.Details)

	actor := &model.User{ID: "u1", Username: "ana", Role: model.RoleAdmin}
	entry, err = NewAuditEntry("e2", model.AuditEntryInput{Action: model.ActionSale, UserName: "Kiosk"}, actor, now)
	require.NoError(t, err)
	assert.Equal(t, "Kiosk", entry.UserName)
	assert.Equal(t, model.RoleAdmin, entry.UserRole)
	assert.Equal(t, "u1", *entry.UserID)

	_, err = NewAuditEntry("e3", model.AuditEntryInput{Action: "refund"}, actor, now)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestApplyStockChanges_ContinuesPastFailures(t *testing.T) {
	var seen []string
	changes := []model.StockChange{{ProductID: "a", Delta: -1}, {ProductID: "b", Delta: -1}, {ProductID: "c", Delta: 2}}

	allOK, errs := ApplyStockChanges(changes, func(c model.StockChange) (bool, error) {
		seen = append(seen, c.ProductID)
		switch c.ProductID {
		case "a":
			return false, nil
		case "b":
			return false, errors.New("connection reset")
		}
		return true, nil
	})

	assert.False(t, allOK)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "product b")
}
