package service

import (
	"context"
	"testing"

	"retailpos/internal/events"
	"retailpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetStock(t *testing.T) {
	cases := []struct {
		mode     BatchMode
		current  int
		quantity int
		want     int
	}{
		{BatchAdd, 4, 6, 10},
		{BatchSubtract, 10, 4, 6},
		{BatchSubtract, 4, 10, 0},
		{BatchSet, 4, 25, 25},
		{BatchSet, 4, 0, 0},
	}
	for _, tc := range cases {
		got, err := TargetStock(tc.mode, tc.current, tc.quantity)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %d %d", tc.mode, tc.current, tc.quantity)
	}

	_, err := TargetStock("double", 1, 1)
	assert.Error(t, err)
}

func newInventory(t *testing.T) (InventoryService, Store, *recordingPublisher) {
	s, _ := newTestStore(t, model.RoleAdmin)
	pub := &recordingPublisher{}
	return NewInventoryService(s, NewAuditService(s), pub), s, pub
}

func TestBatchAdjust_SubtractClampsAtZero(t *testing.T) {
	svc, s, _ := newInventory(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Sugar", 3, 4)

	result, err := svc.BatchAdjust(ctx, BatchAdjustRequest{
		ProductIDs: []string{p.ID},
		Mode:       BatchSubtract,
		Quantity:   10,
		Reason:     "count correction",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, result.Succeeded)
	assert.Empty(t, result.Failed)

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	ledger, err := s.GetStockAdjustments(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, -4, ledger[0].Quantity)
	assert.Equal(t, "count correction", ledger[0].Reason)
	require.NotNil(t, ledger[0].ProductID)
	assert.Equal(t, p.ID, *ledger[0].ProductID)
}

func TestBatchAdjust_SetAndAddWithMissingProduct(t *testing.T) {
	svc, s, pub := newInventory(t)
	ctx := context.Background()
	a := seedProduct(t, s, "A", 1, 5)
	b := seedProduct(t, s, "B", 1, 30)

	result, err := svc.BatchAdjust(ctx, BatchAdjustRequest{
		ProductIDs: []string{a.ID, "missing", b.ID},
		Mode:       BatchSet,
		Quantity:   12,
		Reason:     "stocktake",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "missing", result.Failed[0].ID)

	for id, want := range map[string]int{a.ID: 12, b.ID: 12} {
		got, err := s.GetProductByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Stock)
	}
	assert.Contains(t, pub.kinds(), events.StockChanged)

	ledger, err := s.GetStockAdjustments(ctx)
	require.NoError(t, err)
	deltas := map[int]bool{}
	for _, adj := range ledger {
		deltas[adj.Quantity] = true
	}
	assert.True(t, deltas[7])
	assert.True(t, deltas[-18])
}

func TestAdjustStock_InsufficientStock(t *testing.T) {
	svc, s, _ := newInventory(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Salt", 1, 2)

	_, err := svc.AdjustStock(ctx, p.ID, AdjustStockRequest{Quantity: -3, Reason: "breakage"})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	ledger, err := s.GetStockAdjustments(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	updated, err := svc.AdjustStock(ctx, p.ID, AdjustStockRequest{Quantity: 8, Reason: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)
}

func TestCreateProduct_AuditsAndPublishes(t *testing.T) {
	svc, s, pub := newInventory(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, model.ProductInput{Name: "Juice", Price: 2, Stock: 3})
	require.NoError(t, err)

	kinds := pub.kinds()
	assert.Contains(t, kinds, events.ProductCreated)
	assert.Contains(t, kinds, events.LowStock)

	trail, err := s.GetAuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, model.ActionInventoryAdd, trail[0].Action)
	assert.Equal(t, p.ID, trail[0].Details["productId"])
}

func TestUpdateProduct_AuditsChanges(t *testing.T) {
	svc, s, _ := newInventory(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Juice", 2, 30)

	price := 2.5
	updated, err := svc.UpdateProduct(ctx, p.ID, model.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Price)

	trail, err := s.GetAuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, model.ActionInventoryEdit, trail[0].Action)
	changes, ok := trail[0].Details["changes"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2.5, changes["price"])
}

func TestBulkCreateAndBatchDelete(t *testing.T) {
	svc, s, _ := newInventory(t)
	ctx := context.Background()

	created := svc.BulkCreate(ctx, []model.ProductInput{
		{Name: "One", Price: 1, Stock: 1},
		{Name: "Two", Price: 2, Stock: 2},
	})
	require.Len(t, created.Succeeded, 2)
	assert.Empty(t, created.Failed)

	deleted, err := svc.BatchDelete(ctx, append(created.Succeeded, "missing"))
	require.NoError(t, err)
	assert.ElementsMatch(t, created.Succeeded, deleted.Succeeded)
	require.Len(t, deleted.Failed, 1)
	assert.Equal(t, "missing", deleted.Failed[0].ID)

	products, err := s.GetProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc, _, _ := newInventory(t)
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), "missing"), ErrProductNotFound)
}

func TestDestructiveOps_StaffForbidden(t *testing.T) {
	s, _ := newTestStore(t, model.RoleStaff)
	svc := NewInventoryService(s, NewAuditService(s), nil)
	ctx := context.Background()
	p := seedProduct(t, s, "Rice", 1, 10)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrForbidden)

	_, err := svc.BatchDelete(ctx, []string{p.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.BatchAdjust(ctx, BatchAdjustRequest{
		ProductIDs: []string{p.ID}, Mode: BatchSet, Quantity: 0, Reason: "wipe",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Stock)

	// Non-destructive operations stay open to staff.
	updated, err := svc.AdjustStock(ctx, p.ID, AdjustStockRequest{Quantity: -1, Reason: "sample"})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)
}
