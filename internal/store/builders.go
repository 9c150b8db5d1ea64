package store

import (
	"fmt"
	"strings"
	"time"

	"retailpos/internal/model"

	"github.com/shopspring/decimal"
)

// NewProduct fills in the creation defaults for a product row.
func NewProduct(id string, in model.ProductInput, actor *model.User, now time.Time) model.Product {
	p := model.Product{
		ID:                id,
		Name:              in.Name,
		Category:          in.Category,
		Packaging:         in.Packaging,
		Price:             in.Price,
		Stock:             in.Stock,
		LowStockThreshold: DefaultLowStockThreshold,
		ExpiryDate:        in.Expiry(),
		Image:             in.Image,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = model.DefaultCategory
	}
	if strings.TrimSpace(p.Packaging) == "" {
		p.Packaging = model.DefaultPackaging
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
	if p.Image == nil || *p.Image == "" {
		img := model.DefaultImage
		p.Image = &img
	}
	if actor != nil {
		p.CreatedBy = &actor.ID
	}
	return p
}

func NewWholesaler(id string, in model.WholesalerInput, actor *model.User, now time.Time) model.Wholesaler {
	products := model.StringList(in.Products)
	if products == nil {
		products = model.StringList{}
	}
	w := model.Wholesaler{
		ID:               id,
		Name:             in.Name,
		Contact:          in.Contact,
		Phone:            in.Phone,
		Products:         products,
		ExpectedDelivery: in.Delivery(),
		CapitalSpent:     in.CapitalSpent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if actor != nil {
		w.CreatedBy = &actor.ID
	}
	return w
}

// SaleTotals are computed once, when the sale is written.
type SaleTotals struct {
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// ComputeSaleTotals sums the line items and applies the percentage discount,
// rounding money to cents.
func ComputeSaleTotals(items []model.SaleItem, discount float64) (SaleTotals, error) {
	if discount < 0 || discount > 100 {
		return SaleTotals{}, fmt.Errorf("discount %.2f out of range: %w", discount, ErrConstraint)
	}
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return SaleTotals{}, fmt.Errorf("item %s: quantity must be positive: %w", item.ProductID, ErrConstraint)
		}
		if item.Price < 0 {
			return SaleTotals{}, fmt.Errorf("item %s: price must not be negative: %w", item.ProductID, ErrConstraint)
		}
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	discountAmount := subtotal.Mul(decimal.NewFromFloat(discount)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Sub(discountAmount)

	return SaleTotals{
		Subtotal:       subtotal.InexactFloat64(),
		DiscountAmount: discountAmount.InexactFloat64(),
		Total:          total.InexactFloat64(),
	}, nil
}

// NewSale builds the immutable sale row. The cashier name is the explicit one
// from the input, or the actor's display name.
func NewSale(id string, in model.SaleInput, actor *model.User, now time.Time) (model.Sale, error) {
	if len(in.Items) == 0 {
		return model.Sale{}, fmt.Errorf("sale has no items: %w", ErrConstraint)
	}
	totals, err := ComputeSaleTotals(in.Items, in.Discount)
	if err != nil {
		return model.Sale{}, err
	}
	items := make(model.SaleItems, len(in.Items))
	copy(items, in.Items)

	sale := model.Sale{
		ID:             id,
		Items:          items,
		Subtotal:       totals.Subtotal,
		Discount:       in.Discount,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		CreatedAt:      now,
		UserName:       strings.TrimSpace(in.CashierName),
	}
	if actor != nil {
		sale.UserID = &actor.ID
		if sale.UserName == "" {
			sale.UserName = actor.DisplayName()
		}
	}
	return sale, nil
}

func NewStockAdjustment(id string, in model.StockAdjustmentInput, actor *model.User, now time.Time) model.StockAdjustment {
	adj := model.StockAdjustment{
		ID:          id,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		CreatedAt:   now,
	}
	if adj.ProductID != nil && *adj.ProductID == "" {
		adj.ProductID = nil
	}
	if actor != nil {
		adj.CreatedBy = &actor.ID
	}
	return adj
}

// NewAuditEntry snapshots the actor into the entry. Explicit input fields win
// over the resolved actor.
func NewAuditEntry(id string, in model.AuditEntryInput, actor *model.User, now time.Time) (model.AuditEntry, error) {
	if !model.ValidAction(in.Action) {
		return model.AuditEntry{}, fmt.Errorf("unknown audit action %q: %w", in.Action, ErrConstraint)
	}
	entry := model.AuditEntry{
		ID:        id,
		Timestamp: now,
		UserID:    in.UserID,
		UserName:  in.UserName,
		UserRole:  in.UserRole,
		Action:    in.Action,
		Details:   model.JSONMap(in.Details),
		IPAddress: in.IPAddress,
		CreatedAt: now,
	}
	if actor != nil {
		if entry.UserID == nil {
			entry.UserID = &actor.ID
		}
		if entry.UserName == "" {
			entry.UserName = actor.DisplayName()
		}
		if entry.UserRole == "" {
			entry.UserRole = actor.Role
		}
	}
	if entry.UserName == "" {
		entry.UserName = "unknown"
	}
	if entry.UserRole == "" {
		entry.UserRole = model.RoleStaff
	}
	if entry.Details == nil {
		entry.Details = model.JSONMap{}
	}
	return entry, nil
}

// ApplyStockChanges runs update for every change in order and keeps going past
// failures. It reports whether every change applied, plus any storage errors.
func ApplyStockChanges(changes []model.StockChange, update func(model.StockChange) (bool, error)) (bool, []error) {
	allOK := true
	var errs []error
	for _, change := range changes {
		ok, err := update(change)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", change.ProductID, err))
		}
		if !ok {
			allOK = false
		}
	}
	return allOK, errs
}
