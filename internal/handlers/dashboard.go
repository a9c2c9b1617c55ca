package handlers

import (
	"net/http"

	"shipsupply/db"
	"shipsupply/internal/analytics"
	"shipsupply/internal/i18n"
	"shipsupply/models"
)

const dashboardMonths = 6

// DashboardHandler обрабатывает GET /api/dashboard: показатели по роли пользователя
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		stats  interface{}
		orders []models.Order
		err    error
	)
	switch s.Role {
	case models.RoleShipowner:
		var rfqs []models.RFQ
		if rfqs, err = h.Store.ListRFQs(ctx, db.RFQFilter{ShipownerID: &s.UserID}); err != nil {
			break
		}
		if orders, err = h.Store.ListOrders(ctx, db.OrderFilter{ShipownerID: &s.UserID}); err != nil {
			break
		}
		stats = analytics.Shipowner(rfqs, orders)

	case models.RoleSupplier:
		var (
			quotations []models.Quotation
			reviews    []models.Review
		)
		if quotations, err = h.Store.ListQuotations(ctx, db.QuotationFilter{SupplierID: &s.UserID}); err != nil {
			break
		}
		if orders, err = h.Store.ListOrders(ctx, db.OrderFilter{SupplierID: &s.UserID}); err != nil {
			break
		}
		if reviews, err = h.Store.ListReviews(ctx, db.ReviewFilter{SupplierID: &s.UserID}); err != nil {
			break
		}
		stats = analytics.Supplier(quotations, orders, reviews)

	case models.RoleAdmin:
		var (
			users []models.User
			rfqs  []models.RFQ
		)
		if users, err = h.Store.ListUsers(ctx); err != nil {
			break
		}
		if rfqs, err = h.Store.ListRFQs(ctx, db.RFQFilter{}); err != nil {
			break
		}
		if orders, err = h.Store.ListOrders(ctx, db.OrderFilter{}); err != nil {
			break
		}
		stats = analytics.Admin(users, rfqs, orders)

	default:
		h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
		return
	}
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"role":    s.Role,
		"stats":   stats,
		"monthly": analytics.MonthlyBuckets(orders, dashboardMonths, h.now()),
	})
}
