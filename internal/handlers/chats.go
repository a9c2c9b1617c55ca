package handlers

import (
	"net/http"
	"strconv"
	"time"

	"shipsupply/internal/feed"
	"shipsupply/internal/i18n"
	"shipsupply/internal/messaging"
	"shipsupply/models"

	"github.com/google/uuid"
)

type createChatRequest struct {
	ParticipantID string `json:"participantId" validate:"required,uuid"`
	RFQID         string `json:"rfqId" validate:"omitempty,uuid"`
	QuotationID   string `json:"quotationId" validate:"omitempty,uuid"`
	OrderID       string `json:"orderId" validate:"omitempty,uuid"`
}

func participant(u *models.User) models.ChatParticipant {
	return models.ChatParticipant{UserID: u.ID, Name: u.Email, CompanyName: u.CompanyName}
}

// CreateChatHandler обрабатывает POST /api/chat/create.
// Повторное создание того же чата возвращает существующий.
func (h *Handler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req createChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	otherID := uuid.MustParse(req.ParticipantID)
	if otherID == s.UserID {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgSelfChat)
		return
	}
	// uuid-формат уже проверен валидатором
	rfqID, _ := optionalID(req.RFQID)
	quotationID, _ := optionalID(req.QuotationID)
	orderID, _ := optionalID(req.OrderID)

	if !h.checkChatSubject(w, r, s.UserID, otherID, s.Role == models.RoleAdmin, rfqID, quotationID, orderID) {
		return
	}

	me, err := h.Store.GetUser(r.Context(), s.UserID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}
	other, err := h.Store.GetUser(r.Context(), otherID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}

	chat := &models.Chat{
		RFQID:        rfqID,
		QuotationID:  quotationID,
		OrderID:      orderID,
		Participants: []models.ChatParticipant{participant(me), participant(other)},
	}
	chat.DedupKey = messaging.DedupKey([]uuid.UUID{me.ID, other.ID}, rfqID, quotationID, orderID)

	created, err := h.Store.CreateChat(r.Context(), chat)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.publish(messaging.ParticipantIDs(chat), feed.EventChatUpdated, chat)
	}
	writeSuccess(w, status, map[string]interface{}{"chat": chat, "created": created})
}

// checkChatSubject загружает RFQ, котировку и заказ, к которым привязывается чат.
// Для заказа и котировки собеседники должны быть его судовладельцем и поставщиком,
// для RFQ один из них - владелец запроса. Админ может открыть чат по любой сущности.
func (h *Handler) checkChatSubject(w http.ResponseWriter, r *http.Request, meID, otherID uuid.UUID, admin bool,
	rfqID, quotationID, orderID *uuid.UUID) bool {
	ctx := r.Context()
	parties := func(shipownerID, supplierID uuid.UUID) bool {
		return (meID == shipownerID && otherID == supplierID) || (meID == supplierID && otherID == shipownerID)
	}

	if orderID != nil {
		o, err := h.Store.GetOrder(ctx, *orderID)
		if err != nil {
			h.storageFail(w, r, err, i18n.MsgOrderNotFound, "")
			return false
		}
		if !admin && !parties(o.ShipownerID, o.SupplierID) {
			h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
			return false
		}
	}
	if quotationID != nil {
		q, err := h.Store.GetQuotation(ctx, *quotationID)
		if err != nil {
			h.storageFail(w, r, err, i18n.MsgQuotationNotFound, "")
			return false
		}
		rfq, err := h.Store.GetRFQ(ctx, q.RFQID)
		if err != nil {
			h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
			return false
		}
		if !admin && !parties(rfq.ShipownerID, q.SupplierID) {
			h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
			return false
		}
	}
	if rfqID != nil {
		rfq, err := h.Store.GetRFQ(ctx, *rfqID)
		if err != nil {
			h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
			return false
		}
		if !admin && meID != rfq.ShipownerID && otherID != rfq.ShipownerID {
			h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
			return false
		}
	}
	return true
}

// ListChatsHandler обрабатывает GET /api/chat/list
func (h *Handler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	chats, err := h.Store.ListChats(r.Context(), s.UserID)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// loadChat находит чат и проверяет, что пользователь - его участник
func (h *Handler) loadChat(w http.ResponseWriter, r *http.Request, id, userID uuid.UUID) (*models.Chat, bool) {
	chat, err := h.Store.GetChat(r.Context(), id)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgChatNotFound, "")
		return nil, false
	}
	if !messaging.IsParticipant(chat, userID) {
		h.fail(w, r, http.StatusForbidden, i18n.MsgNotParticipant)
		return nil, false
	}
	return chat, true
}

// ListMessagesHandler обрабатывает GET /api/chat/{chatId}/messages?before=&limit=
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	chatID, ok := h.urlID(w, r, "chatId")
	if !ok {
		return
	}

	limit := 50
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	var before *time.Time
	if b := r.URL.Query().Get("before"); b != "" {
		t, err := time.Parse(time.RFC3339Nano, b)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "before: datetime")
			return
		}
		before = &t
	}

	if _, ok := h.loadChat(w, r, chatID, s.UserID); !ok {
		return
	}
	msgs, err := h.Store.ListMessages(r.Context(), chatID, before, limit)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

type chatReadRequest struct {
	ChatID string `json:"chatId" validate:"required,uuid"`
}

// MarkChatReadHandler обрабатывает POST /api/chat/read: обнуляет свой счётчик непрочитанных
func (h *Handler) MarkChatReadHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req chatReadRequest
	if !h.decode(w, r, &req) {
		return
	}
	chat, ok := h.loadChat(w, r, uuid.MustParse(req.ChatID), s.UserID)
	if !ok {
		return
	}
	if err := h.Store.MarkChatRead(r.Context(), chat.ID, s.UserID); err != nil {
		h.storageFail(w, r, err, i18n.MsgChatNotFound, "")
		return
	}
	chat.UnreadCount[s.UserID.String()] = 0
	h.publish([]uuid.UUID{s.UserID}, feed.EventChatUpdated, chat)
	writeSuccess(w, http.StatusOK, nil)
}

// Клиент может прислать только текст; остальные типы сообщений создаёт сервер.
type sendMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required,uuid"`
	Content string `json:"content" validate:"required,max=5000"`
	Type    string `json:"type" validate:"omitempty,oneof=text"`
}

// SendMessageHandler обрабатывает POST /api/message/send.
// Счётчик непрочитанных растёт на 1 у каждого участника, кроме отправителя.
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	chat, ok := h.loadChat(w, r, uuid.MustParse(req.ChatID), s.UserID)
	if !ok {
		return
	}

	m := &models.Message{
		ChatID:   chat.ID,
		SenderID: s.UserID,
		Content:  req.Content,
		Type:     models.MessageText,
	}
	for _, p := range chat.Participants {
		if p.UserID == s.UserID {
			m.SenderName, m.SenderCompany = p.Name, p.CompanyName
		}
	}

	recipients := messaging.Recipients(chat, s.UserID)
	if err := h.Store.CreateMessage(r.Context(), m, recipients); err != nil {
		h.storageFail(w, r, err, i18n.MsgChatNotFound, "")
		return
	}

	for _, id := range recipients {
		chat.UnreadCount[id.String()]++
	}
	chat.LastMessage = messaging.Preview(m.Content)
	chat.LastSenderID = &m.SenderID
	chat.UpdatedAt = m.CreatedAt

	everyone := messaging.ParticipantIDs(chat)
	h.publish(everyone, feed.EventMessageNew, m)
	h.publish(everyone, feed.EventChatUpdated, chat)
	writeSuccess(w, http.StatusCreated, map[string]interface{}{"message": m})
}
