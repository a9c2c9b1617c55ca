// Package messaging содержит правила чатов: ключ дедупликации и адресаты счётчиков непрочитанных.
package messaging

import (
	"sort"
	"strings"

	"shipsupply/models"

	"github.com/google/uuid"
)

const previewLen = 120

// DedupKey однозначно определяет чат по набору участников и связанной сущности,
// независимо от порядка участников.
func DedupKey(participants []uuid.UUID, rfqID, quotationID, orderID *uuid.UUID) string {
	ids := make([]string, 0, len(participants))
	seen := map[uuid.UUID]bool{}
	for _, p := range participants {
		if seen[p] {
			continue
		}
		seen[p] = true
		ids = append(ids, p.String())
	}
	sort.Strings(ids)

	key := strings.Join(ids, "+")
	switch {
	case orderID != nil:
		key += "|order:" + orderID.String()
	case quotationID != nil:
		key += "|quotation:" + quotationID.String()
	case rfqID != nil:
		key += "|rfq:" + rfqID.String()
	}
	return key
}

// Recipients - все участники, кроме отправителя: им увеличивается счётчик непрочитанных.
func Recipients(chat *models.Chat, senderID uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		if p.UserID != senderID {
			out = append(out, p.UserID)
		}
	}
	return out
}

func IsParticipant(chat *models.Chat, userID uuid.UUID) bool {
	for _, p := range chat.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantIDs - идентификаторы всех участников чата
func ParticipantIDs(chat *models.Chat) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		out = append(out, p.UserID)
	}
	return out
}

// Preview обрезает текст сообщения для lastMessage.
func Preview(content string) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) <= previewLen {
		return string(r)
	}
	return string(r[:previewLen-1]) + "…"
}

// FillDerived заполняет participantIds и unreadCount из списка участников.
func FillDerived(chat *models.Chat) {
	chat.ParticipantIDs = ParticipantIDs(chat)
	chat.UnreadCount = make(map[string]int, len(chat.Participants))
	for _, p := range chat.Participants {
		chat.UnreadCount[p.UserID.String()] = p.UnreadCount
	}
}
