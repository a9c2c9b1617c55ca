package analytics

import (
	"testing"
	"time"

	"shipsupply/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func order(amount string, status models.OrderStatus, updated time.Time) models.Order {
	return models.Order{Amount: decimal.RequireFromString(amount), Status: status, UpdatedAt: updated}
}

func TestTotalSpentCountsOnlyFulfilledOrders(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		order("100", models.OrderCompleted, now),
		order("200", models.OrderDelivered, now),
		order("300", models.OrderShipped, now),
	}
	stats := Shipowner(nil, orders)
	require.True(t, decimal.NewFromInt(300).Equal(stats.TotalSpent), stats.TotalSpent.String())
	require.Equal(t, 1, stats.ActiveOrders)
	require.Equal(t, 2, stats.CompletedOrders)
}

func TestShipownerStats(t *testing.T) {
	rfqs := []models.RFQ{
		{Status: models.RFQOpen, QuotationCount: 3},
		{Status: models.RFQAwarded, QuotationCount: 2},
		{Status: models.RFQClosed, QuotationCount: 0},
	}
	stats := Shipowner(rfqs, nil)
	require.Equal(t, 3, stats.TotalRFQs)
	require.Equal(t, 1, stats.OpenRFQs)
	require.Equal(t, 1, stats.AwardedRFQs)
	require.Equal(t, 5, stats.QuotationsReceived)
	require.Equal(t, 1.7, stats.AvgQuotationsPerRFQ)
	require.True(t, stats.TotalSpent.IsZero())
}

func TestSupplierStats(t *testing.T) {
	quotations := []models.Quotation{
		{Status: models.QuotationAccepted},
		{Status: models.QuotationRejected},
		{Status: models.QuotationPending},
	}
	orders := []models.Order{
		order("500", models.OrderCompleted, time.Now()),
		order("70", models.OrderCancelled, time.Now()),
	}
	reviews := []models.Review{{Rating: 5}, {Rating: 4}}

	stats := Supplier(quotations, orders, reviews)
	require.Equal(t, 3, stats.QuotationsSubmitted)
	require.Equal(t, 1, stats.Accepted)
	require.Equal(t, 1, stats.Rejected)
	require.Equal(t, 1, stats.Pending)
	require.Equal(t, 33.3, stats.SuccessRate)
	require.Equal(t, 0, stats.ActiveOrders)
	require.Equal(t, 1, stats.CompletedOrders)
	require.True(t, decimal.NewFromInt(500).Equal(stats.TotalRevenue))
	require.Equal(t, 4.5, stats.AverageRating)
}

func TestAdminStats(t *testing.T) {
	users := []models.User{{Role: models.RoleShipowner}, {Role: models.RoleSupplier}, {Role: models.RoleSupplier}}
	orders := []models.Order{order("10", models.OrderDelivered, time.Now()), order("20", models.OrderPending, time.Now())}

	stats := Admin(users, []models.RFQ{{Status: models.RFQOpen}}, orders)
	require.Equal(t, 2, stats.UsersByRole[models.RoleSupplier])
	require.Equal(t, 1, stats.RFQsByStatus[models.RFQOpen])
	require.Equal(t, 1, stats.OrdersByStatus[models.OrderPending])
	require.True(t, decimal.NewFromInt(10).Equal(stats.GrossVolume))
}

func TestMonthlyBuckets(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order("100", models.OrderCompleted, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
		order("50", models.OrderDelivered, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)),
		order("25", models.OrderDelivered, time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)),
		order("999", models.OrderShipped, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)),
		order("999", models.OrderCompleted, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
	}

	buckets := MonthlyBuckets(orders, 3, now)
	require.Len(t, buckets, 3)
	require.Equal(t, "2026-01", buckets[0].Month)
	require.Equal(t, "2026-02", buckets[1].Month)
	require.Equal(t, "2026-03", buckets[2].Month)
	require.True(t, decimal.NewFromInt(75).Equal(buckets[0].Amount))
	require.Equal(t, 2, buckets[0].Orders)
	require.True(t, buckets[1].Amount.IsZero())
	require.True(t, decimal.NewFromInt(100).Equal(buckets[2].Amount))

	require.Nil(t, MonthlyBuckets(orders, 0, now))
}

func TestMonthlyBucketsUseUTCMonth(t *testing.T) {
	// 1 апреля 01:30 в Стамбуле - это ещё 31 марта по UTC
	istanbul := time.FixedZone("TRT", 3*60*60)
	now := time.Date(2026, 4, 1, 1, 30, 0, 0, istanbul)
	orders := []models.Order{
		order("40", models.OrderCompleted, time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC)),
	}

	buckets := MonthlyBuckets(orders, 2, now)
	require.Equal(t, "2026-02", buckets[0].Month)
	require.Equal(t, "2026-03", buckets[1].Month)
	require.True(t, decimal.NewFromInt(40).Equal(buckets[1].Amount))
}

func TestPercent(t *testing.T) {
	require.Equal(t, 0.0, Percent(1, 0))
	require.Equal(t, 50.0, Percent(1, 2))
	require.Equal(t, 66.7, Percent(2, 3))
}
