package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"shipsupply/internal/feed"
	"shipsupply/internal/i18n"

	"nhooyr.io/websocket"
)

// WSHandler обрабатывает GET /api/ws?token=: поток изменений для вошедшего пользователя.
func (h *Handler) WSHandler(w http.ResponseWriter, r *http.Request) {
	if h.Hub == nil {
		h.fail(w, r, http.StatusServiceUnavailable, i18n.MsgInternal)
		return
	}
	s, err := h.Issuer.Parse(r.URL.Query().Get("token"))
	if err != nil {
		h.fail(w, r, http.StatusUnauthorized, i18n.MsgUnauthorized)
		return
	}
	active, err := h.Store.SessionActive(r.Context(), s.ID)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	if !active {
		h.fail(w, r, http.StatusUnauthorized, i18n.MsgUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.Opts.WSInsecureSkipVerify,
	})
	if err != nil {
		log.Printf("websocket accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	sub := h.Hub.SubscribeSession(s.UserID, s.ID)
	defer h.Hub.Unsubscribe(sub)

	err = feed.Stream(r.Context(), conn, sub)
	if err != nil && !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
		log.Printf("websocket stream for %s: %v", s.UserID, err)
	}
}
