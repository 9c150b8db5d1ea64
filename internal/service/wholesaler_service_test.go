package service

import (
	"context"
	"testing"

	"retailpos/internal/model"
	"retailpos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContact(t *testing.T) {
	assert.NoError(t, validateContact("555-0101"))
	assert.NoError(t, validateContact("orders@metro.test"))
	assert.Error(t, validateContact("orders@"))
}

func TestWholesalerLifecycle(t *testing.T) {
	s, _ := newTestStore(t, model.RoleAdmin)
	svc := NewWholesalerService(s)
	ctx := context.Background()

	_, err := svc.CreateWholesaler(ctx, model.WholesalerInput{Name: "Bad", Contact: "nobody@"})
	assert.Error(t, err)

	w, err := svc.CreateWholesaler(ctx, model.WholesalerInput{Name: "Metro", Contact: "orders@metro.test", CapitalSpent: 1500})
	require.NoError(t, err)

	phone := "555-0199"
	updated, err := svc.UpdateWholesaler(ctx, w.ID, model.WholesalerUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, 1500.0, updated.CapitalSpent)

	require.NoError(t, svc.DeleteWholesaler(ctx, w.ID))
	assert.ErrorIs(t, svc.DeleteWholesaler(ctx, w.ID), store.ErrNotFound)
}

func TestWholesalers_StaffForbidden(t *testing.T) {
	s, _ := newTestStore(t, model.RoleStaff)
	svc := NewWholesalerService(s)
	ctx := context.Background()

	_, err := svc.GetWholesalers(ctx)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateWholesaler(ctx, model.WholesalerInput{Name: "Metro", Contact: "555-0101"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteWholesaler(ctx, "any"), ErrForbidden)
}
