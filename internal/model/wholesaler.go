package model

import (
	"time"
)

// Wholesaler is an admin-owned supplier record. Products is a free-form list of
// product names, not a foreign key.
type Wholesaler struct {
	ID               string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string     `gorm:"type:varchar(255);not null" json:"name"`
	Contact          string     `gorm:"type:varchar(255);not null" json:"contact"`
	Phone            string     `gorm:"type:varchar(50);not null" json:"phone"`
	Products         StringList `gorm:"type:jsonb;not null" json:"products"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
	CapitalSpent     float64    `gorm:"type:decimal(14,2);not null;default:0;check:capital_spent >= 0" json:"capital_spent"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CreatedBy        *string    `gorm:"type:uuid" json:"created_by"`
	Creator          *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (Wholesaler) TableName() string { return "wholesalers" }

type WholesalerInput struct {
	Name                   string       `json:"name" binding:"required"`
	Contact                string       `json:"contact" binding:"required"`
	Phone                  string       `json:"phone"`
	Products               []string     `json:"products"`
	ExpectedDelivery       OptionalDate `json:"expected_delivery"`
	LegacyExpectedDelivery OptionalDate `json:"expectedDelivery"`
	CapitalSpent           float64      `json:"capital_spent" binding:"min=0"`
}

func (in WholesalerInput) Delivery() *time.Time {
	return pickDate(in.ExpectedDelivery, in.LegacyExpectedDelivery).Time
}

type WholesalerUpdate struct {
	Name                   *string      `json:"name"`
	Contact                *string      `json:"contact"`
	Phone                  *string      `json:"phone"`
	Products               *[]string    `json:"products"`
	ExpectedDelivery       OptionalDate `json:"expected_delivery"`
	LegacyExpectedDelivery OptionalDate `json:"expectedDelivery"`
	CapitalSpent           *float64     `json:"capital_spent" binding:"omitempty,min=0"`
}

// Fields returns the column map for the update, without updated_at.
func (u WholesalerUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Contact != nil {
		fields["contact"] = *u.Contact
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.Products != nil {
		fields["products"] = StringList(*u.Products)
	}
	if delivery := pickDate(u.ExpectedDelivery, u.LegacyExpectedDelivery); delivery.Set {
		fields["expected_delivery"] = delivery.Time
	}
	if u.CapitalSpent != nil {
		fields["capital_spent"] = *u.CapitalSpent
	}
	return fields
}
