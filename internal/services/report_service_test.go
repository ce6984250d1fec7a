package services

import (
	"context"
	"testing"

	"kedai_pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTrading leaves one sale yesterday and two today, the first just after local midnight.
func seedTrading(t *testing.T, f *fixture) (models.MenuItem, models.MenuItem) {
	t.Helper()
	f.at(10, 12, 0)
	nasi := f.seedItem(t, "Nasi Lemak", "Pak Abu", "2", "5", 10)
	teh := f.seedItem(t, "Teh O", "", "1", "3", 5)

	f.at(8, 10, 0)
	f.sell(t, nasi, 1)
	f.at(17, 23, 0)
	f.sell(t, nasi, 1)
	f.at(18, 0, 30)
	f.sellCash(t, nasi, 2, "10")
	f.at(18, 14, 30)
	f.sell(t, teh, 1)
	return nasi, teh
}

func TestDailySummary(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	summary, err := f.reports.DailySummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-10-18", summary.Date)
	assert.Equal(t, 2, summary.TransactionCount)
	assert.True(t, dec("13").Equal(summary.Revenue), "revenue %s", summary.Revenue)
	assert.True(t, dec("8").Equal(summary.Profit), "profit %s", summary.Profit)
	assert.True(t, dec("5").Equal(summary.Cost))

	require.Len(t, summary.ByPaymentMethod, 2)
	cash, wallet := summary.ByPaymentMethod[0], summary.ByPaymentMethod[1]
	assert.Equal(t, models.PaymentCash, cash.PaymentMethod)
	assert.Equal(t, 1, cash.Transactions)
	assert.Equal(t, "76.92", cash.Percentage.StringFixed(2))
	assert.Equal(t, "23.08", wallet.Percentage.StringFixed(2))
}

func TestDailySummaryWithoutSales(t *testing.T) {
	f := newFixture(t)

	summary, err := f.reports.DailySummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TransactionCount)
	assert.True(t, summary.Revenue.IsZero())
	for _, m := range summary.ByPaymentMethod {
		assert.True(t, m.Percentage.IsZero())
	}
}

func TestStockBalanceGroupsByVendor(t *testing.T) {
	f := newFixture(t)
	nasi, teh := seedTrading(t, f)

	groups, err := f.reports.StockBalance(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Pak Abu", groups[0].Vendor)
	assert.Equal(t, models.StockBalanceItem{ItemID: nasi.ID, Name: "Nasi Lemak", OpeningStock: 8, Sold: 2, Balance: 6}, groups[0].Items[0])

	assert.Equal(t, models.NoVendorLabel, groups[1].Vendor)
	assert.Equal(t, models.StockBalanceItem{ItemID: teh.ID, Name: "Teh O", OpeningStock: 5, Sold: 1, Balance: 4}, groups[1].Items[0])
}

func TestStockBalanceEmptyInventory(t *testing.T) {
	f := newFixture(t)
	groups, err := f.reports.StockBalance(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestVendorCostsSortedByTotal(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	costs, err := f.reports.VendorCosts(context.Background())
	require.NoError(t, err)
	require.Len(t, costs, 2)

	assert.Equal(t, "Pak Abu", costs[0].Vendor)
	assert.True(t, dec("4").Equal(costs[0].TotalCost))
	require.Len(t, costs[0].Items, 1)
	assert.Equal(t, 2, costs[0].Items[0].Quantity)

	assert.Equal(t, models.NoVendorLabel, costs[1].Vendor)
	assert.True(t, dec("1").Equal(costs[1].TotalCost))
}

func TestCashFlow(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)
	ctx := context.Background()

	points, err := f.reports.CashFlow(ctx, 7)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "2026-10-12", points[0].Date)
	assert.Equal(t, "2026-10-18", points[6].Date)

	for _, p := range points[:5] {
		assert.True(t, p.Revenue.IsZero(), "%s should be empty", p.Date)
	}
	assert.True(t, dec("5").Equal(points[5].Revenue))
	assert.True(t, dec("3").Equal(points[5].Profit))
	assert.True(t, dec("13").Equal(points[6].Revenue))

	points, err = f.reports.CashFlow(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, points, DefaultCashFlowDays)

	points, err = f.reports.CashFlow(ctx, 365)
	require.NoError(t, err)
	assert.Len(t, points, 90)

	points, err = f.reports.CashFlow(ctx, 11)
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(points[0].Revenue), "sale on the 8th")
}

func TestSearchReceipts(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)
	ctx := context.Background()

	found, err := f.reports.SearchReceipts(ctx, "NASI")
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.True(t, found[0].Timestamp.After(found[1].Timestamp), "newest first")

	byID, err := f.reports.SearchReceipts(ctx, found[2].ID)
	require.NoError(t, err)
	require.Len(t, byID, 1)

	none, err := f.reports.SearchReceipts(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, none)

	none, err = f.reports.SearchReceipts(ctx, "kopi")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDayClosing(t *testing.T) {
	f := newFixture(t)
	seedTrading(t, f)

	closing, err := f.reports.DayClosing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), closing.GeneratedAt)
	assert.Equal(t, 2, closing.Summary.TransactionCount)
	assert.Len(t, closing.StockBalance, 2)
}
