package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	dateLayout          = "2006-01-02"
	DefaultCashFlowDays = 7
	maxCashFlowDays     = 90
)

var hundred = decimal.NewFromInt(100)

// ReportService computes read-only statistics over the sales log and inventory.
// "Today" is everything since local midnight in the configured location.
type ReportService interface {
	DailySummary(ctx context.Context) (*models.DailySummary, error)
	StockBalance(ctx context.Context) ([]models.VendorStockBalance, error)
	VendorCosts(ctx context.Context) ([]models.VendorCost, error)
	CashFlow(ctx context.Context, days int) ([]models.CashFlowPoint, error)
	SearchReceipts(ctx context.Context, query string) ([]models.Sale, error)
	DayClosing(ctx context.Context) (*models.DayClosing, error)
	// TodaySales returns today's sales in the order they were made.
	TodaySales(ctx context.Context) ([]models.Sale, error)
}

type reportService struct {
	store     *repositories.Store
	menuRepo  repositories.MenuItemRepository
	salesRepo repositories.SalesLogRepository
	loc       *time.Location
	now       func() time.Time
}

func NewReportService(
	store *repositories.Store,
	mr repositories.MenuItemRepository,
	sr repositories.SalesLogRepository,
	loc *time.Location,
	now func() time.Time,
) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{store: store, menuRepo: mr, salesRepo: sr, loc: loc, now: now}
}

func (s *reportService) startOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func vendorLabel(item models.MenuItem) string {
	if v := strings.TrimSpace(item.VendorName()); v != "" {
		return v
	}
	return models.NoVendorLabel
}

// snapshot reads inventory and today's sales under one read lock.
func (s *reportService) snapshot() ([]models.MenuItem, []models.Sale, error) {
	var items []models.MenuItem
	var today []models.Sale
	err := s.store.View(func(ex repositories.Executor) error {
		var err error
		if items, err = s.menuRepo.List(ex); err != nil {
			return err
		}
		today, err = s.salesRepo.ListSince(ex, s.startOfDay(s.now()))
		return err
	})
	return items, today, err
}

func (s *reportService) TodaySales(ctx context.Context) ([]models.Sale, error) {
	return s.salesRepo.ListSince(s.store, s.startOfDay(s.now()))
}

func (s *reportService) DailySummary(ctx context.Context) (*models.DailySummary, error) {
	today, err := s.TodaySales(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(today), nil
}

func (s *reportService) summarize(today []models.Sale) *models.DailySummary {
	summary := &models.DailySummary{
		Date:             s.now().In(s.loc).Format(dateLayout),
		Revenue:          decimal.Zero,
		Profit:           decimal.Zero,
		TransactionCount: len(today),
		Sales:            today,
	}
	byMethod := map[models.PaymentMethod]*models.PaymentMethodTotal{
		models.PaymentCash:    {PaymentMethod: models.PaymentCash, Revenue: decimal.Zero},
		models.PaymentEWallet: {PaymentMethod: models.PaymentEWallet, Revenue: decimal.Zero},
	}
	for _, sale := range today {
		summary.Revenue = summary.Revenue.Add(sale.Total)
		summary.Profit = summary.Profit.Add(sale.Profit)
		m, ok := byMethod[sale.PaymentMethod]
		if !ok {
			m = &models.PaymentMethodTotal{PaymentMethod: sale.PaymentMethod, Revenue: decimal.Zero}
			byMethod[sale.PaymentMethod] = m
		}
		m.Revenue = m.Revenue.Add(sale.Total)
		m.Transactions++
	}
	summary.Cost = summary.Revenue.Sub(summary.Profit)

	for _, method := range []models.PaymentMethod{models.PaymentCash, models.PaymentEWallet} {
		m := byMethod[method]
		m.Percentage = decimal.Zero
		if summary.Revenue.IsPositive() {
			m.Percentage = m.Revenue.Div(summary.Revenue).Mul(hundred).Round(2)
		}
		summary.ByPaymentMethod = append(summary.ByPaymentMethod, *m)
	}
	return summary
}

func soldByItem(sales []models.Sale) map[string]int {
	sold := make(map[string]int)
	for _, sale := range sales {
		for _, line := range sale.Items {
			sold[line.ID] += line.Quantity
		}
	}
	return sold
}

func (s *reportService) StockBalance(ctx context.Context) ([]models.VendorStockBalance, error) {
	items, today, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return stockBalance(items, today), nil
}

func stockBalance(items []models.MenuItem, today []models.Sale) []models.VendorStockBalance {
	sold := soldByItem(today)
	groups := make(map[string]*models.VendorStockBalance)
	var order []string
	for _, item := range items {
		vendor := vendorLabel(item)
		g, ok := groups[vendor]
		if !ok {
			g = &models.VendorStockBalance{Vendor: vendor, Items: []models.StockBalanceItem{}}
			groups[vendor] = g
			order = append(order, vendor)
		}
		g.Items = append(g.Items, models.StockBalanceItem{
			ItemID:       item.ID,
			Name:         item.Name,
			OpeningStock: item.Stock + sold[item.ID],
			Sold:         sold[item.ID],
			Balance:      item.Stock,
		})
	}

	sort.SliceStable(order, func(i, j int) bool {
		return strings.ToLower(order[i]) < strings.ToLower(order[j])
	})
	out := make([]models.VendorStockBalance, 0, len(order))
	for _, vendor := range order {
		out = append(out, *groups[vendor])
	}
	return out
}

func (s *reportService) VendorCosts(ctx context.Context) ([]models.VendorCost, error) {
	items, today, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	type vendorAgg struct {
		cost  models.VendorCost
		index map[string]int
	}
	aggs := make(map[string]*vendorAgg)
	var order []string
	for _, sale := range today {
		for _, line := range sale.Items {
			vendor := vendorLabel(line.MenuItem)
			if current, ok := byID[line.ID]; ok {
				vendor = vendorLabel(current)
			}
			agg, ok := aggs[vendor]
			if !ok {
				agg = &vendorAgg{
					cost:  models.VendorCost{Vendor: vendor, TotalCost: decimal.Zero, Items: []models.VendorCostItem{}},
					index: make(map[string]int),
				}
				aggs[vendor] = agg
				order = append(order, vendor)
			}
			lineCost := line.LineCost()
			i, ok := agg.index[line.Name]
			if !ok {
				agg.cost.Items = append(agg.cost.Items, models.VendorCostItem{Name: line.Name, CostPrice: line.CostPrice, TotalCost: decimal.Zero})
				i = len(agg.cost.Items) - 1
				agg.index[line.Name] = i
			}
			agg.cost.Items[i].Quantity += line.Quantity
			agg.cost.Items[i].TotalCost = agg.cost.Items[i].TotalCost.Add(lineCost)
			agg.cost.TotalCost = agg.cost.TotalCost.Add(lineCost)
		}
	}

	out := make([]models.VendorCost, 0, len(order))
	for _, vendor := range order {
		out = append(out, aggs[vendor].cost)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCost.GreaterThan(out[j].TotalCost)
	})
	return out, nil
}

func (s *reportService) CashFlow(ctx context.Context, days int) ([]models.CashFlowPoint, error) {
	if days <= 0 {
		days = DefaultCashFlowDays
	}
	if days > maxCashFlowDays {
		days = maxCashFlowDays
	}

	today := s.startOfDay(s.now())
	first := today.AddDate(0, 0, -(days - 1))
	sales, err := s.salesRepo.ListSince(s.store, first)
	if err != nil {
		return nil, err
	}

	points := make([]models.CashFlowPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i).Format(dateLayout)
		points[i] = models.CashFlowPoint{Date: date, Revenue: decimal.Zero, Profit: decimal.Zero}
		index[date] = i
	}
	for _, sale := range sales {
		i, ok := index[sale.Timestamp.In(s.loc).Format(dateLayout)]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(sale.Total)
		points[i].Profit = points[i].Profit.Add(sale.Profit)
	}
	return points, nil
}

func (s *reportService) SearchReceipts(ctx context.Context, query string) ([]models.Sale, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Sale{}, nil
	}
	sales, err := s.salesRepo.List(s.store)
	if err != nil {
		return nil, err
	}

	matches := []models.Sale{}
	for i := len(sales) - 1; i >= 0; i-- {
		if saleMatches(sales[i], query) {
			matches = append(matches, sales[i])
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})
	return matches, nil
}

func saleMatches(sale models.Sale, query string) bool {
	if utils.ContainsFold(sale.ID, query) {
		return true
	}
	for _, line := range sale.Items {
		if utils.ContainsFold(line.Name, query) {
			return true
		}
	}
	return false
}

func (s *reportService) DayClosing(ctx context.Context) (*models.DayClosing, error) {
	items, today, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return &models.DayClosing{
		GeneratedAt:  s.now(),
		Summary:      *s.summarize(today),
		StockBalance: stockBalance(items, today),
	}, nil
}
