// Package feed рассылает изменения (сообщения, котировки, заказы) подписанным пользователям.
package feed

import (
	"sync"

	"github.com/google/uuid"
)

const (
	EventMessageNew       = "message:new"
	EventChatUpdated      = "chat:updated"
	EventQuotationNew     = "quotation:new"
	EventQuotationUpdated = "quotation:updated"
	EventOrderCreated     = "order:created"
	EventOrderUpdated     = "order:updated"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher - источник изменений для обработчиков; транспорт подписчиков скрыт за ним.
type Publisher interface {
	Publish(userIDs []uuid.UUID, ev Event)
}

type Subscription struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	C         <-chan Event

	send chan Event
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*Subscription]struct{}
	buffer int
}

func NewHub() *Hub {
	return &Hub{
		subs:   map[uuid.UUID]map[*Subscription]struct{}{},
		buffer: 64,
	}
}

func (h *Hub) Subscribe(userID uuid.UUID) *Subscription {
	return h.SubscribeSession(userID, uuid.Nil)
}

// SubscribeSession привязывает подписку к сессии, чтобы CloseSession мог её завершить.
func (h *Hub) SubscribeSession(userID, sessionID uuid.UUID) *Subscription {
	ch := make(chan Event, h.buffer)
	s := &Subscription{UserID: userID, SessionID: sessionID, C: ch, send: ch}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = map[*Subscription]struct{}{}
	}
	h.subs[userID][s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Unsubscribe закрывает канал подписки. Повторный вызов безопасен.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[s.UserID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.UserID)
	}
	close(s.send)
}

// CloseSession закрывает все подписки сессии (логаут). Возвращает их число.
func (h *Hub) CloseSession(userID, sessionID uuid.UUID) int {
	if sessionID == uuid.Nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := 0
	set := h.subs[userID]
	for s := range set {
		if s.SessionID != sessionID {
			continue
		}
		delete(set, s)
		close(s.send)
		closed++
	}
	if len(set) == 0 {
		delete(h.subs, userID)
	}
	return closed
}

// Publish не блокируется: переполненный подписчик теряет событие.
func (h *Hub) Publish(userIDs []uuid.UUID, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool, len(userIDs))
	for _, uid := range userIDs {
		if seen[uid] {
			continue
		}
		seen[uid] = true
		for s := range h.subs[uid] {
			select {
			case s.send <- ev:
			default:
			}
		}
	}
}

// Subscribers - число активных подписок пользователя
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
