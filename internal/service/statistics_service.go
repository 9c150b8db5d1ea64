package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"retailpos/internal/model"
	"retailpos/pkg/dateutil"

	"github.com/shopspring/decimal"
)

const (
	// ExpiryWindow is how far ahead the dashboard looks for expiring products.
	ExpiryWindow    = 30 * 24 * time.Hour
	topProductLimit = 5
	monthLayout     = "2006-01"
)

type StatisticsService interface {
	GetSummary(ctx context.Context) (model.DashboardSummary, error)
	GetLowStock(ctx context.Context) ([]model.Product, error)
	GetExpiringSoon(ctx context.Context) ([]model.Product, error)
	GetTodaysRevenue(ctx context.Context) (float64, error)
	GetMonthlyRevenue(ctx context.Context, month time.Time) (model.MonthlyRevenue, error)
	GetTopProducts(ctx context.Context, limit int) ([]model.ProductSales, error)
}

type statisticsService struct {
	store Store
	now   func() time.Time
}

func NewStatisticsService(store Store) StatisticsService {
	return &statisticsService{store: store, now: time.Now}
}

// GetSummary assembles the dashboard. Each section degrades to empty on a
// read failure; the failure is logged.
func (s *statisticsService) GetSummary(ctx context.Context) (model.DashboardSummary, error) {
	now := s.now()
	summary := model.DashboardSummary{
		GeneratedAt:  now.UTC(),
		LowStock:     []model.Product{},
		ExpiringSoon: []model.Product{},
		TopProducts:  []model.ProductSales{},
	}

	if products, err := s.store.GetProducts(ctx); err == nil {
		summary.TotalProducts = len(products)
	} else {
		log.Printf("[dashboard] products unavailable: %v", err)
	}
	if low, err := s.store.GetLowStockProducts(ctx); err == nil {
		summary.LowStock = orEmpty(low)
	} else {
		log.Printf("[dashboard] low stock unavailable: %v", err)
	}
	if expiring, err := s.store.GetProductsExpiringBefore(ctx, now.Add(ExpiryWindow)); err == nil {
		summary.ExpiringSoon = orEmpty(expiring)
	} else {
		log.Printf("[dashboard] expiring products unavailable: %v", err)
	}

	from, to := dateutil.DayBounds(now)
	if today, err := s.store.GetSalesBetween(ctx, from, to); err == nil {
		summary.TodaysTransactions = len(today)
	} else {
		log.Printf("[dashboard] today's sales unavailable: %v", err)
	}
	if sales, err := s.store.GetSales(ctx); err == nil {
		summary.TopProducts = topProducts(sales, topProductLimit)
	} else {
		log.Printf("[dashboard] sales unavailable: %v", err)
	}

	if revenue, err := s.GetTodaysRevenue(ctx); err == nil {
		summary.TodaysRevenue = &revenue
	} else if !errors.Is(err, ErrForbidden) {
		log.Printf("[dashboard] revenue unavailable: %v", err)
	}
	return summary, nil
}

func (s *statisticsService) GetLowStock(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.GetLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	return orEmpty(products), nil
}

func (s *statisticsService) GetExpiringSoon(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.GetProductsExpiringBefore(ctx, s.now().Add(ExpiryWindow))
	if err != nil {
		return nil, err
	}
	return orEmpty(products), nil
}

// GetTodaysRevenue is admin-only.
func (s *statisticsService) GetTodaysRevenue(ctx context.Context) (float64, error) {
	if err := requireAdmin(ctx, s.store); err != nil {
		return 0, err
	}
	return s.store.GetTodaysRevenue(ctx)
}

// GetMonthlyRevenue breaks the calendar month containing month down by day,
// in month's time zone. Admin-only.
func (s *statisticsService) GetMonthlyRevenue(ctx context.Context, month time.Time) (model.MonthlyRevenue, error) {
	if err := requireAdmin(ctx, s.store); err != nil {
		return model.MonthlyRevenue{}, err
	}

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, 0)
	sales, err := s.store.GetSalesBetween(ctx, start, end)
	if err != nil {
		return model.MonthlyRevenue{}, err
	}
	return dailyBreakdown(start, sales), nil
}

func (s *statisticsService) GetTopProducts(ctx context.Context, limit int) ([]model.ProductSales, error) {
	sales, err := s.store.GetSales(ctx)
	if err != nil {
		return nil, err
	}
	return topProducts(sales, limit), nil
}

func orEmpty(products []model.Product) []model.Product {
	if products == nil {
		return []model.Product{}
	}
	return products
}

// dailyBreakdown buckets sales into the days of the month starting at start.
func dailyBreakdown(start time.Time, sales []model.Sale) model.MonthlyRevenue {
	days := start.AddDate(0, 1, -1).Day()
	sums := make([]decimal.Decimal, days)
	out := model.MonthlyRevenue{
		Month: start.Format(monthLayout),
		Days:  make([]model.DailyRevenue, days),
	}
	for i := range out.Days {
		out.Days[i].Day = i + 1
	}

	for _, sale := range sales {
		at := sale.CreatedAt.In(start.Location())
		if at.Year() != start.Year() || at.Month() != start.Month() {
			continue
		}
		i := at.Day() - 1
		sums[i] = sums[i].Add(decimal.NewFromFloat(sale.Total))
		out.Days[i].Transactions++
		out.Transactions++
	}

	total := decimal.Zero
	highest := decimal.Zero
	for i, sum := range sums {
		out.Days[i].Revenue = sum.Round(2).InexactFloat64()
		total = total.Add(sum)
		if sum.GreaterThan(highest) {
			highest = sum
		}
	}
	out.Total = total.Round(2).InexactFloat64()
	out.Average = total.Div(decimal.NewFromInt(int64(days))).Round(2).InexactFloat64()
	out.Highest = highest.Round(2).InexactFloat64()
	return out
}

// topProducts ranks line items by units sold.
func topProducts(sales []model.Sale, limit int) []model.ProductSales {
	totals := map[string]*model.ProductSales{}
	var order []string
	for _, sale := range sales {
		for _, item := range sale.Items {
			row, ok := totals[item.ProductID]
			if !ok {
				row = &model.ProductSales{ProductID: item.ProductID, Name: item.Name}
				totals[item.ProductID] = row
				order = append(order, item.ProductID)
			}
			row.Quantity += item.Quantity
			row.Revenue += item.Price * float64(item.Quantity)
		}
	}

	out := make([]model.ProductSales, 0, len(order))
	for _, id := range order {
		out = append(out, *totals[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
