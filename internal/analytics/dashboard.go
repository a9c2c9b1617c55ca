// Package analytics считает показатели панелей управления по уже выбранным данным.
package analytics

import (
	"time"

	"shipsupply/models"

	"github.com/shopspring/decimal"
)

type ShipownerStats struct {
	TotalRFQs           int             `json:"totalRfqs"`
	OpenRFQs            int             `json:"openRfqs"`
	AwardedRFQs         int             `json:"awardedRfqs"`
	QuotationsReceived  int             `json:"quotationsReceived"`
	AvgQuotationsPerRFQ float64         `json:"avgQuotationsPerRfq"`
	ActiveOrders        int             `json:"activeOrders"`
	CompletedOrders     int             `json:"completedOrders"`
	TotalSpent          decimal.Decimal `json:"totalSpent"`
}

type SupplierStats struct {
	QuotationsSubmitted int             `json:"quotationsSubmitted"`
	Accepted            int             `json:"accepted"`
	Rejected            int             `json:"rejected"`
	Pending             int             `json:"pending"`
	SuccessRate         float64         `json:"successRate"`
	ActiveOrders        int             `json:"activeOrders"`
	CompletedOrders     int             `json:"completedOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	AverageRating       float64         `json:"averageRating"`
}

type AdminStats struct {
	UsersByRole    map[models.Role]int        `json:"usersByRole"`
	RFQsByStatus   map[models.RFQStatus]int   `json:"rfqsByStatus"`
	OrdersByStatus map[models.OrderStatus]int `json:"ordersByStatus"`
	GrossVolume    decimal.Decimal            `json:"grossVolume"`
}

// Bucket - сумма исполненных заказов за месяц (YYYY-MM)
type Bucket struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Orders int             `json:"orders"`
}

// FulfilledTotal суммирует только доставленные и завершённые заказы.
func FulfilledTotal(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status.Fulfilled() {
			total = total.Add(o.Amount)
		}
	}
	return total
}

func countOrders(orders []models.Order) (active, completed int) {
	for _, o := range orders {
		switch {
		case o.Status.Active():
			active++
		case o.Status.Fulfilled():
			completed++
		}
	}
	return
}

func Shipowner(rfqs []models.RFQ, orders []models.Order) ShipownerStats {
	s := ShipownerStats{TotalRFQs: len(rfqs)}
	for _, r := range rfqs {
		switch r.Status {
		case models.RFQOpen:
			s.OpenRFQs++
		case models.RFQAwarded:
			s.AwardedRFQs++
		}
		s.QuotationsReceived += r.QuotationCount
	}
	if len(rfqs) > 0 {
		s.AvgQuotationsPerRFQ = round1(float64(s.QuotationsReceived) / float64(len(rfqs)))
	}
	s.ActiveOrders, s.CompletedOrders = countOrders(orders)
	s.TotalSpent = FulfilledTotal(orders)
	return s
}

func Supplier(quotations []models.Quotation, orders []models.Order, reviews []models.Review) SupplierStats {
	s := SupplierStats{QuotationsSubmitted: len(quotations)}
	for _, q := range quotations {
		switch q.Status {
		case models.QuotationAccepted:
			s.Accepted++
		case models.QuotationRejected:
			s.Rejected++
		case models.QuotationPending:
			s.Pending++
		}
	}
	s.SuccessRate = Percent(s.Accepted, len(quotations))
	s.ActiveOrders, s.CompletedOrders = countOrders(orders)
	s.TotalRevenue = FulfilledTotal(orders)
	s.AverageRating = AverageRating(reviews)
	return s
}

func Admin(users []models.User, rfqs []models.RFQ, orders []models.Order) AdminStats {
	s := AdminStats{
		UsersByRole:    map[models.Role]int{},
		RFQsByStatus:   map[models.RFQStatus]int{},
		OrdersByStatus: map[models.OrderStatus]int{},
	}
	for _, u := range users {
		s.UsersByRole[u.Role]++
	}
	for _, r := range rfqs {
		s.RFQsByStatus[r.Status]++
	}
	for _, o := range orders {
		s.OrdersByStatus[o.Status]++
	}
	s.GrossVolume = FulfilledTotal(orders)
	return s
}

// MonthlyBuckets раскладывает исполненные заказы по последним n месяцам, включая текущий.
// Месяцы без заказов присутствуют с нулём, порядок по возрастанию.
func MonthlyBuckets(orders []models.Order, n int, now time.Time) []Bucket {
	if n <= 0 {
		return nil
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	buckets := make([]Bucket, n)
	index := make(map[string]int, n)
	for i := range buckets {
		m := start.AddDate(0, i, 0).Format("2006-01")
		buckets[i] = Bucket{Month: m, Amount: decimal.Zero}
		index[m] = i
	}
	for _, o := range orders {
		if !o.Status.Fulfilled() {
			continue
		}
		i, ok := index[o.UpdatedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		buckets[i].Amount = buckets[i].Amount.Add(o.Amount)
		buckets[i].Orders++
	}
	return buckets
}

func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return round1(float64(sum) / float64(len(reviews)))
}

// Percent возвращает долю part от total в процентах с одним знаком после запятой.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
