package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"retailpos/internal/events"
	"retailpos/internal/model"
	"retailpos/internal/store"
)

type BatchMode string

const (
	BatchAdd      BatchMode = "add"
	BatchSubtract BatchMode = "subtract"
	BatchSet      BatchMode = "set"
)

// DTOs
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type BatchAdjustRequest struct {
	ProductIDs []string  `json:"product_ids" binding:"required,min=1"`
	Mode       BatchMode `json:"mode" binding:"required,oneof=add subtract set"`
	Quantity   int       `json:"quantity" binding:"min=0"`
	Reason     string    `json:"reason" binding:"required"`
}

type BatchDeleteRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required,min=1"`
}

type BulkCreateRequest struct {
	Products []model.ProductInput `json:"products" binding:"required,min=1,dive"`
}

type BatchFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports each item of a batch. Batches continue past failures
// and never roll back items already applied.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

func (r *BatchResult) ok(id string) { r.Succeeded = append(r.Succeeded, id) }

func (r *BatchResult) fail(id string, err error) {
	r.Failed = append(r.Failed, BatchFailure{ID: id, Reason: err.Error()})
}

// TargetStock computes the stock a batch adjustment aims for. Subtract clamps
// at zero.
func TargetStock(mode BatchMode, current, quantity int) (int, error) {
	switch mode {
	case BatchAdd:
		return current + quantity, nil
	case BatchSubtract:
		if current-quantity < 0 {
			return 0, nil
		}
		return current - quantity, nil
	case BatchSet:
		return quantity, nil
	}
	return 0, fmt.Errorf("unknown adjustment mode %q", mode)
}

type InventoryService interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in model.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, req AdjustStockRequest) (*model.Product, error)
	BatchAdjust(ctx context.Context, req BatchAdjustRequest) (BatchResult, error)
	BulkCreate(ctx context.Context, products []model.ProductInput) BatchResult
	BatchDelete(ctx context.Context, ids []string) (BatchResult, error)
	GetStockAdjustments(ctx context.Context) ([]model.StockAdjustment, error)
}

type inventoryService struct {
	store     Store
	audit     AuditService
	publisher events.Publisher
}

func NewInventoryService(store Store, audit AuditService, publisher events.Publisher) InventoryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &inventoryService{
		store:     store,
		audit:     audit,
		publisher: publisher,
	}
}

func (s *inventoryService) GetProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.GetProducts(ctx)
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	product, err := s.store.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	s.audit.LogInventoryAdd(ctx, product)
	s.publisher.Publish(ctx, events.New(events.ProductCreated, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"stock":      product.Stock,
	}))
	s.notifyLowStock(ctx, product)
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id string, in model.ProductUpdate) (*model.Product, error) {
	product, err := s.store.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	s.audit.LogInventoryEdit(ctx, product, in.Fields())
	s.publisher.Publish(ctx, events.New(events.ProductUpdated, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"stock":      product.Stock,
	}))
	s.notifyLowStock(ctx, product)
	return product, nil
}

// DeleteProduct is admin-only.
func (s *inventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := requireAdmin(ctx, s.store); err != nil {
		return err
	}
	return s.deleteProduct(ctx, id)
}

func (s *inventoryService) deleteProduct(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return ErrProductNotFound
	}
	s.publisher.Publish(ctx, events.New(events.ProductDeleted, map[string]interface{}{"product_id": id}))
	return nil
}

// AdjustStock applies a manual signed adjustment: the stock update first, then
// the ledger entry, then the audit entry. The steps commit independently.
func (s *inventoryService) AdjustStock(ctx context.Context, id string, req AdjustStockRequest) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	applied, err := s.applyDelta(ctx, product, req.Quantity, req.Reason)
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// BatchAdjust moves each product towards the target stock for mode and records
// the delta actually applied. Admin-only.
func (s *inventoryService) BatchAdjust(ctx context.Context, req BatchAdjustRequest) (BatchResult, error) {
	var result BatchResult
	if err := requireAdmin(ctx, s.store); err != nil {
		return result, err
	}
	for _, id := range req.ProductIDs {
		product, err := s.GetProduct(ctx, id)
		if err != nil {
			result.fail(id, err)
			continue
		}

		target, err := TargetStock(req.Mode, product.Stock, req.Quantity)
		if err != nil {
			result.fail(id, err)
			continue
		}

		if _, err := s.applyDelta(ctx, product, target-product.Stock, req.Reason); err != nil {
			result.fail(id, err)
			continue
		}
		result.ok(id)
	}

	if len(result.Failed) > 0 {
		log.Printf("[inventory] batch %s: %d applied, %d failed", req.Mode, len(result.Succeeded), len(result.Failed))
	}
	return result, nil
}

// BulkCreate is the import path. Each product is created on its own.
func (s *inventoryService) BulkCreate(ctx context.Context, products []model.ProductInput) BatchResult {
	var result BatchResult
	for i, in := range products {
		product, err := s.CreateProduct(ctx, in)
		if err != nil {
			if errors.Is(err, store.ErrNotAuthenticated) {
				// No later row can succeed either.
				for _, rest := range products[i:] {
					result.fail(rest.Name, err)
				}
				break
			}
			result.fail(in.Name, err)
			continue
		}
		result.ok(product.ID)
	}
	return result
}

// BatchDelete is admin-only.
func (s *inventoryService) BatchDelete(ctx context.Context, ids []string) (BatchResult, error) {
	var result BatchResult
	if err := requireAdmin(ctx, s.store); err != nil {
		return result, err
	}
	for _, id := range ids {
		if err := s.deleteProduct(ctx, id); err != nil {
			result.fail(id, err)
			continue
		}
		result.ok(id)
	}
	return result, nil
}

func (s *inventoryService) GetStockAdjustments(ctx context.Context) ([]model.StockAdjustment, error) {
	return s.store.GetStockAdjustments(ctx)
}

// applyDelta routes through UpdateProductStock and then records the ledger entry.
// A ledger failure after the stock update is reported but not undone.
func (s *inventoryService) applyDelta(ctx context.Context, product *model.Product, delta int, reason string) (*model.Product, error) {
	ok, err := s.store.UpdateProductStock(ctx, product.ID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: cannot apply %+d to stock %d: %w", product.Name, delta, product.Stock, ErrInsufficientStock)
	}

	productID := product.ID
	adj, err := s.store.CreateStockAdjustment(ctx, model.StockAdjustmentInput{
		ProductID:   &productID,
		ProductName: product.Name,
		Quantity:    delta,
		Reason:      reason,
	})
	if err != nil {
		return nil, fmt.Errorf("stock updated but adjustment not recorded: %w", err)
	}
	s.audit.LogStockAdjustment(ctx, adj)

	updated := *product
	updated.Stock = product.Stock + delta
	if fresh, err := s.store.GetProductByID(ctx, product.ID); err == nil && fresh != nil {
		updated = *fresh
	}

	s.publisher.Publish(ctx, events.New(events.StockChanged, map[string]interface{}{
		"product_id": updated.ID,
		"name":       updated.Name,
		"delta":      delta,
		"stock":      updated.Stock,
	}))
	s.notifyLowStock(ctx, &updated)
	return &updated, nil
}

func (s *inventoryService) notifyLowStock(ctx context.Context, product *model.Product) {
	if !product.IsLowStock() {
		return
	}
	s.publisher.Publish(ctx, events.New(events.LowStock, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"stock":      product.Stock,
		"threshold":  product.LowStockThreshold,
	}))
}
