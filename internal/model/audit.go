package model

import (
	"time"
)

const (
	ActionLogin           = "login"
	ActionSale            = "sale"
	ActionInventoryAdd    = "inventory_add"
	ActionInventoryEdit   = "inventory_edit"
	ActionStockAdjustment = "stock_adjustment"
)

// MaxAuditEntries caps every audit trail read. Storage itself is unbounded.
const MaxAuditEntries = 1000

// AuditEntry tracks who did what and when. Insert-only.
type AuditEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index:idx_audit_trail_timestamp,sort:desc" json:"timestamp"`
	UserID    *string   `gorm:"type:uuid;index:idx_audit_trail_user_id" json:"user_id"` // nullable when the actor is gone
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	UserName  string    `gorm:"type:varchar(255);not null" json:"user_name"`
	UserRole  string    `gorm:"type:varchar(20);not null" json:"user_role"`
	Action    string    `gorm:"type:varchar(30);not null;index:idx_audit_trail_action;check:action IN ('login', 'sale', 'inventory_add', 'inventory_edit', 'stock_adjustment')" json:"action"`
	Details   JSONMap   `gorm:"type:jsonb;not null" json:"details"`
	IPAddress *string   `gorm:"type:varchar(64)" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_trail" }

type AuditEntryInput struct {
	UserID    *string                `json:"user_id"`
	UserName  string                 `json:"user_name"`
	UserRole  string                 `json:"user_role"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	IPAddress *string                `json:"ip_address"`
}

// ValidAction reports whether action is one of the recorded action kinds.
func ValidAction(action string) bool {
	switch action {
	case ActionLogin, ActionSale, ActionInventoryAdd, ActionInventoryEdit, ActionStockAdjustment:
		return true
	}
	return false
}
