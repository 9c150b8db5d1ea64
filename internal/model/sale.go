package model

import (
	"time"
)

// SaleItem snapshots the product at sale time so receipts stay stable.
type SaleItem struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" binding:"min=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Category  string  `json:"category,omitempty"`
	Packaging string  `json:"packaging,omitempty"`
}

// Sale is immutable once written; there is no update operation.
type Sale struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Items          SaleItems `gorm:"type:jsonb;not null" json:"items"`
	Subtotal       float64   `gorm:"type:decimal(14,2);not null;check:subtotal >= 0" json:"subtotal"`
	Discount       float64   `gorm:"type:decimal(5,2);not null;default:0;check:discount >= 0 AND discount <= 100" json:"discount"`
	DiscountAmount float64   `gorm:"type:decimal(14,2);not null;default:0;check:discount_amount >= 0" json:"discount_amount"`
	Total          float64   `gorm:"type:decimal(14,2);not null;check:total >= 0" json:"total"`
	CreatedAt      time.Time `gorm:"index:idx_sales_created_at,sort:desc" json:"created_at"`
	UserID         *string   `gorm:"type:uuid;index:idx_sales_user_id" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	UserName       string    `gorm:"type:varchar(255);not null" json:"user_name"`
}

func (Sale) TableName() string { return "sales" }

// SaleInput carries line items and the discount percentage. Totals are
// computed by the store, never taken from the caller.
type SaleInput struct {
	Items       []SaleItem `json:"items" binding:"required,min=1,dive"`
	Discount    float64    `json:"discount" binding:"min=0,max=100"`
	CashierName string     `json:"user_name"`
}
