package service

import (
	"context"
	"fmt"
	"log"

	"retailpos/internal/events"
	"retailpos/internal/model"
	"retailpos/internal/store"
)

// StockNotAppliedError is returned when the sale row exists but its stock
// decrements were reverted. The sale stays recorded for reconciliation.
type StockNotAppliedError struct {
	SaleID    string
	ProductID string
	Cause     error
}

func (e *StockNotAppliedError) Error() string {
	msg := fmt.Sprintf("sale %s recorded but stock for product %s not applied", e.SaleID, e.ProductID)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StockNotAppliedError) Is(target error) bool { return target == ErrStockNotApplied }

func (e *StockNotAppliedError) Unwrap() error { return e.Cause }

type CheckoutService interface {
	CompleteSale(ctx context.Context, in model.SaleInput) (*model.Sale, error)
	GetSales(ctx context.Context) ([]model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
}

type checkoutService struct {
	store     Store
	audit     AuditService
	publisher events.Publisher
}

func NewCheckoutService(store Store, audit AuditService, publisher events.Publisher) CheckoutService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &checkoutService{store: store, audit: audit, publisher: publisher}
}

type lineDemand struct {
	productID string
	quantity  int
}

// CompleteSale records a sale and decrements stock:
//  1. every product exists and has enough stock,
//  2. the sale row is written,
//  3. each product is decremented through UpdateProductStock,
//  4. the sale is audited once every decrement applied.
//
// If a decrement is rejected, the decrements already applied are restored and
// a StockNotAppliedError is returned together with the recorded sale.
func (s *checkoutService) CompleteSale(ctx context.Context, in model.SaleInput) (*model.Sale, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("sale has no items")
	}

	demands, products, err := s.checkStock(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	items := make([]model.SaleItem, len(in.Items))
	for i, item := range in.Items {
		p := products[item.ProductID]
		item.Name = p.Name
		item.Price = p.Price
		item.Category = p.Category
		item.Packaging = p.Packaging
		items[i] = item
	}
	in.Items = items

	sale, err := s.store.CreateSale(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	var applied []lineDemand
	for _, d := range demands {
		ok, err := s.store.UpdateProductStock(ctx, d.productID, -d.quantity)
		if err == nil && !ok {
			err = ErrInsufficientStock
		}
		if err != nil {
			s.revert(ctx, sale.ID, applied)
			return sale, &StockNotAppliedError{SaleID: sale.ID, ProductID: d.productID, Cause: err}
		}
		applied = append(applied, d)
	}

	s.audit.LogSale(ctx, sale)
	s.publisher.Publish(ctx, events.New(events.SaleCompleted, map[string]interface{}{
		"sale_id": sale.ID,
		"total":   sale.Total,
		"items":   len(sale.Items),
	}))
	for _, d := range demands {
		p := products[d.productID]
		remaining := p.Stock - d.quantity
		s.publisher.Publish(ctx, events.New(events.StockChanged, map[string]interface{}{
			"product_id": p.ID,
			"name":       p.Name,
			"delta":      -d.quantity,
			"stock":      remaining,
		}))
		if remaining <= p.LowStockThreshold {
			s.publisher.Publish(ctx, events.New(events.LowStock, map[string]interface{}{
				"product_id": p.ID,
				"name":       p.Name,
				"stock":      remaining,
				"threshold":  p.LowStockThreshold,
			}))
		}
	}
	return sale, nil
}

// checkStock merges line items per product and verifies availability.
func (s *checkoutService) checkStock(ctx context.Context, items []model.SaleItem) ([]lineDemand, map[string]*model.Product, error) {
	var demands []lineDemand
	index := map[string]int{}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, nil, fmt.Errorf("item %s: quantity must be positive", item.ProductID)
		}
		if i, ok := index[item.ProductID]; ok {
			demands[i].quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(demands)
		demands = append(demands, lineDemand{productID: item.ProductID, quantity: item.Quantity})
	}

	products := make(map[string]*model.Product, len(demands))
	for _, d := range demands {
		p, err := s.store.GetProductByID(ctx, d.productID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, fmt.Errorf("%s: %w", d.productID, ErrProductNotFound)
		}
		if p.Stock < d.quantity {
			return nil, nil, fmt.Errorf("%s: %d requested, %d available: %w", p.Name, d.quantity, p.Stock, ErrInsufficientStock)
		}
		products[d.productID] = p
	}
	return demands, products, nil
}

// revert gives back decrements already applied for a sale.
func (s *checkoutService) revert(ctx context.Context, saleID string, applied []lineDemand) {
	for _, d := range applied {
		ok, err := s.store.UpdateProductStock(ctx, d.productID, d.quantity)
		if err != nil || !ok {
			log.Printf("[checkout] sale %s: failed to restore %d of product %s: %v", saleID, d.quantity, d.productID, err)
		}
	}
}

func (s *checkoutService) GetSales(ctx context.Context) ([]model.Sale, error) {
	return s.store.GetSales(ctx)
}

func (s *checkoutService) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	sale, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("sale %s: %w", id, store.ErrNotFound)
	}
	return sale, nil
}
