package model

import "time"

// ProductSales is a ranking row: units sold and revenue per product.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// DashboardSummary is the dashboard payload. TodaysRevenue is nil for
// non-admin callers.
type DashboardSummary struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	TotalProducts      int            `json:"total_products"`
	LowStock           []Product      `json:"low_stock"`
	ExpiringSoon       []Product      `json:"expiring_soon"`
	TodaysRevenue      *float64       `json:"todays_revenue,omitempty"`
	TodaysTransactions int            `json:"todays_transactions"`
	TopProducts        []ProductSales `json:"top_products"`
}

// DailyRevenue is one calendar day of a monthly breakdown.
type DailyRevenue struct {
	Day          int     `json:"day"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// MonthlyRevenue lists every day of Month ("2006-01"), including days without sales.
type MonthlyRevenue struct {
	Month        string         `json:"month"`
	Days         []DailyRevenue `json:"days"`
	Total        float64        `json:"total"`
	Average      float64        `json:"average"`
	Highest      float64        `json:"highest"`
	Transactions int            `json:"transactions"`
}
