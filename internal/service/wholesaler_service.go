package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"retailpos/internal/model"
	"retailpos/internal/store"
)

// WholesalerService is admin-only; it has no effect on products or sales.
type WholesalerService interface {
	GetWholesalers(ctx context.Context) ([]model.Wholesaler, error)
	CreateWholesaler(ctx context.Context, in model.WholesalerInput) (*model.Wholesaler, error)
	UpdateWholesaler(ctx context.Context, id string, in model.WholesalerUpdate) (*model.Wholesaler, error)
	DeleteWholesaler(ctx context.Context, id string) error
}

type wholesalerService struct {
	store Store
}

func NewWholesalerService(store Store) WholesalerService {
	return &wholesalerService{store: store}
}

// validateContact checks addresses that look like email. Anything else is
// stored as given (phone numbers, names).
func validateContact(contact string) error {
	if !strings.Contains(contact, "@") {
		return nil
	}
	if _, err := mail.ParseAddress(contact); err != nil {
		return fmt.Errorf("invalid contact email %q", contact)
	}
	return nil
}

func (s *wholesalerService) GetWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	if err := requireAdmin(ctx, s.store); err != nil {
		return nil, err
	}
	return s.store.GetWholesalers(ctx)
}

func (s *wholesalerService) CreateWholesaler(ctx context.Context, in model.WholesalerInput) (*model.Wholesaler, error) {
	if err := requireAdmin(ctx, s.store); err != nil {
		return nil, err
	}
	if err := validateContact(in.Contact); err != nil {
		return nil, err
	}
	return s.store.CreateWholesaler(ctx, in)
}

func (s *wholesalerService) UpdateWholesaler(ctx context.Context, id string, in model.WholesalerUpdate) (*model.Wholesaler, error) {
	if err := requireAdmin(ctx, s.store); err != nil {
		return nil, err
	}
	if in.Contact != nil {
		if err := validateContact(*in.Contact); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateWholesaler(ctx, id, in)
}

func (s *wholesalerService) DeleteWholesaler(ctx context.Context, id string) error {
	if err := requireAdmin(ctx, s.store); err != nil {
		return err
	}
	deleted, err := s.store.DeleteWholesaler(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("wholesaler %s: %w", id, store.ErrNotFound)
	}
	return nil
}
