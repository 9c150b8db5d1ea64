package service

import (
	"context"
	"errors"

	"retailpos/internal/store"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("access denied: insufficient permissions")
	// ErrStockNotApplied means a sale was recorded but its stock decrements
	// could not all be applied; applied decrements were reverted.
	ErrStockNotApplied = errors.New("sale recorded but stock not applied")
)

// Store is the data access the services run on: the adapter in production.
type Store interface {
	store.DataStore
	store.AuditStore
}

type adminChecker interface {
	IsAdmin(ctx context.Context) (bool, error)
}

// requireAdmin asks the data layer, not the token, whether the caller is an admin.
func requireAdmin(ctx context.Context, s adminChecker) error {
	admin, err := s.IsAdmin(ctx)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden
	}
	return nil
}
