package handlers

import (
	"net/http"

	"shipsupply/db"
	"shipsupply/internal/analytics"
	"shipsupply/internal/i18n"
	"shipsupply/models"

	"github.com/google/uuid"
)

type createReviewRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// CreateReviewHandler обрабатывает POST /api/review/create.
// Отзыв оставляет судовладелец исполненного заказа, один на заказ.
func (h *Handler) CreateReviewHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req createReviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, err := h.Store.GetOrder(r.Context(), uuid.MustParse(req.OrderID))
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgOrderNotFound, "")
		return
	}
	if o.ShipownerID != s.UserID || !o.Status.Fulfilled() {
		h.fail(w, r, http.StatusForbidden, i18n.MsgReviewNotAllowed)
		return
	}

	review := &models.Review{
		OrderID:     o.ID,
		ShipownerID: o.ShipownerID,
		SupplierID:  o.SupplierID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := h.Store.CreateReview(r.Context(), review); err != nil {
		h.storageFail(w, r, err, i18n.MsgOrderNotFound, i18n.MsgReviewExists)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]interface{}{"review": review})
}

// ListReviewsHandler обрабатывает GET /api/review/list?supplierId=|orderId=
func (h *Handler) ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	supplierID, err := optionalID(r.URL.Query().Get("supplierId"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidID, "supplierId")
		return
	}
	orderID, err := optionalID(r.URL.Query().Get("orderId"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidID, "orderId")
		return
	}
	if supplierID == nil && orderID == nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgReviewFilterRequired)
		return
	}

	reviews, err := h.Store.ListReviews(r.Context(), db.ReviewFilter{SupplierID: supplierID, OrderID: orderID})
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"reviews":       reviews,
		"count":         len(reviews),
		"averageRating": analytics.AverageRating(reviews),
	})
}
