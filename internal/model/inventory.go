package model

import (
	"time"
)

// Defaults applied when a product is created without the field.
const (
	DefaultCategory          = "General"
	DefaultPackaging         = "Unit"
	DefaultImage             = "/placeholder.svg?height=100&width=100"
	DefaultLowStockThreshold = 10
)

// Product represents an item in the inventory
type Product struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name"`
	Category          string     `gorm:"type:varchar(100);not null;index:idx_products_category" json:"category"`
	Packaging         string     `gorm:"type:varchar(100);not null" json:"packaging"`
	Price             float64    `gorm:"type:decimal(12,2);not null;check:price >= 0" json:"price"`
	Stock             int        `gorm:"type:int;not null;default:0;index:idx_products_stock;check:stock >= 0" json:"stock"`
	LowStockThreshold int        `gorm:"type:int;not null;check:low_stock_threshold >= 0" json:"low_stock_threshold"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	Image             *string    `gorm:"type:text" json:"image"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CreatedBy         *string    `gorm:"type:uuid" json:"created_by"`
	Creator           *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (Product) TableName() string { return "products" }

// IsLowStock mirrors the dashboard rule: at or below the threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name              string       `json:"name" binding:"required"`
	Category          string       `json:"category"`
	Packaging         string       `json:"packaging"`
	Price             float64      `json:"price" binding:"min=0"`
	Stock             int          `json:"stock" binding:"min=0"`
	LowStockThreshold *int         `json:"low_stock_threshold" binding:"omitempty,min=0"`
	ExpiryDate        OptionalDate `json:"expiry_date"`
	LegacyExpiryDate  OptionalDate `json:"expiryDate"`
	Image             *string      `json:"image"`
}

// Expiry resolves the two accepted field names into one value.
func (in ProductInput) Expiry() *time.Time {
	return pickDate(in.ExpiryDate, in.LegacyExpiryDate).Time
}

// ProductUpdate is a partial update; nil / unset fields keep their stored value.
type ProductUpdate struct {
	Name              *string      `json:"name"`
	Category          *string      `json:"category"`
	Packaging         *string      `json:"packaging"`
	Price             *float64     `json:"price" binding:"omitempty,min=0"`
	Stock             *int         `json:"stock" binding:"omitempty,min=0"`
	LowStockThreshold *int         `json:"low_stock_threshold" binding:"omitempty,min=0"`
	ExpiryDate        OptionalDate `json:"expiry_date"`
	LegacyExpiryDate  OptionalDate `json:"expiryDate"`
	Image             *string      `json:"image"`
}

// Fields returns the column map for the update, without updated_at.
func (u ProductUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.Packaging != nil {
		fields["packaging"] = *u.Packaging
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.Stock != nil {
		fields["stock"] = *u.Stock
	}
	if u.LowStockThreshold != nil {
		fields["low_stock_threshold"] = *u.LowStockThreshold
	}
	if expiry := pickDate(u.ExpiryDate, u.LegacyExpiryDate); expiry.Set {
		fields["expiry_date"] = expiry.Time
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	return fields
}

// StockAdjustment is an append-only ledger entry. It never changes stock itself.
type StockAdjustment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   *string   `gorm:"type:uuid;index:idx_stock_adjustments_product_id" json:"product_id"`
	Product     *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int       `gorm:"type:int;not null" json:"quantity"`
	Reason      string    `gorm:"type:text;not null" json:"reason"`
	CreatedAt   time.Time `gorm:"index:idx_stock_adjustments_created_at,sort:desc" json:"created_at"`
	CreatedBy   *string   `gorm:"type:uuid" json:"created_by"`
	Creator     *User     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (StockAdjustment) TableName() string { return "stock_adjustments" }

type StockAdjustmentInput struct {
	ProductID   *string `json:"product_id"`
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity"`
	Reason      string  `json:"reason" binding:"required"`
}

// StockChange is one entry of a multi-product stock update.
type StockChange struct {
	ProductID string `json:"productId" binding:"required"`
	Delta     int    `json:"quantityChange"`
}
