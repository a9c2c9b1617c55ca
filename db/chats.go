package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shipsupply/internal/messaging"
	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Chat (Чат)

// CreateChat создаёт чат или возвращает существующий с тем же ключом дедупликации.
// created=false, если чат уже был.
func (s *Storage) CreateChat(ctx context.Context, c *models.Chat) (bool, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	created := false
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var id uuid.UUID
		err := tx.GetContext(ctx, &id, `
            INSERT INTO chats (id, dedup_key, rfq_id, quotation_id, order_id)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (dedup_key) DO NOTHING
            RETURNING id`,
			c.ID, c.DedupKey, c.RFQID, c.QuotationID, c.OrderID)
		if errors.Is(err, sql.ErrNoRows) {
			// конфликт: чат уже существует
			return nil
		}
		if err != nil {
			return wrapErr(err, "create chat")
		}
		created = true
		for _, p := range c.Participants {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO chat_participants (chat_id, user_id, name, company_name)
                VALUES ($1, $2, $3, $4)`,
				c.ID, p.UserID, p.Name, p.CompanyName)
			if err != nil {
				return wrapErr(err, "add participant")
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	existing, err := s.GetChatByKey(ctx, c.DedupKey)
	if err != nil {
		return false, err
	}
	*c = *existing
	return created, nil
}

func (s *Storage) loadParticipants(ctx context.Context, chats []*models.Chat) error {
	if len(chats) == 0 {
		return nil
	}
	ids := make([]string, len(chats))
	byID := make(map[uuid.UUID]*models.Chat, len(chats))
	for i, c := range chats {
		ids[i] = c.ID.String()
		byID[c.ID] = c
		c.Participants = nil
	}
	parts := []models.ChatParticipant{}
	err := s.db.SelectContext(ctx, &parts,
		`SELECT * FROM chat_participants WHERE chat_id = ANY($1::uuid[]) ORDER BY name`, pq.StringArray(ids))
	if err != nil {
		return wrapErr(err, "load participants")
	}
	for _, p := range parts {
		if c, ok := byID[p.ChatID]; ok {
			c.Participants = append(c.Participants, p)
		}
	}
	for _, c := range chats {
		messaging.FillDerived(c)
	}
	return nil
}

func (s *Storage) getChat(ctx context.Context, query string, arg interface{}) (*models.Chat, error) {
	c := &models.Chat{}
	if err := s.db.GetContext(ctx, c, query, arg); err != nil {
		return nil, wrapErr(err, "get chat")
	}
	if err := s.loadParticipants(ctx, []*models.Chat{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Storage) GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	return s.getChat(ctx, `SELECT * FROM chats WHERE id=$1`, id)
}

func (s *Storage) GetChatByKey(ctx context.Context, key string) (*models.Chat, error) {
	return s.getChat(ctx, `SELECT * FROM chats WHERE dedup_key=$1`, key)
}

// ListChats возвращает чаты пользователя, последние обновлённые первыми.
func (s *Storage) ListChats(ctx context.Context, userID uuid.UUID) ([]models.Chat, error) {
	chats := []models.Chat{}
	err := s.db.SelectContext(ctx, &chats, `
        SELECT c.* FROM chats c
        JOIN chat_participants p ON p.chat_id = c.id
        WHERE p.user_id = $1
        ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, wrapErr(err, "list chats")
	}
	ptrs := make([]*models.Chat, len(chats))
	for i := range chats {
		ptrs[i] = &chats[i]
	}
	if err := s.loadParticipants(ctx, ptrs); err != nil {
		return nil, err
	}
	return chats, nil
}

// Message (Сообщение)

// CreateMessage сохраняет сообщение, увеличивает на 1 счётчик непрочитанных у каждого
// получателя и обновляет lastMessage/updatedAt чата - всё в одной транзакции.
func (s *Storage) CreateMessage(ctx context.Context, m *models.Message, recipients []uuid.UUID) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.ReadBy == nil {
		m.ReadBy = pq.StringArray{m.SenderID.String()}
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
            INSERT INTO messages (id, chat_id, sender_id, sender_name, sender_company, content, type, read_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING created_at`,
			m.ID, m.ChatID, m.SenderID, m.SenderName, m.SenderCompany, m.Content, m.Type, m.ReadBy).
			Scan(&m.CreatedAt)
		if err != nil {
			return wrapErr(err, "create message")
		}

		if len(recipients) > 0 {
			ids := make([]string, len(recipients))
			for i, r := range recipients {
				ids[i] = r.String()
			}
			_, err = tx.ExecContext(ctx, `
                UPDATE chat_participants SET unread_count = unread_count + 1
                WHERE chat_id = $1 AND user_id = ANY($2::uuid[])`,
				m.ChatID, pq.StringArray(ids))
			if err != nil {
				return wrapErr(err, "bump unread")
			}
		}

		res, err := tx.ExecContext(ctx, `
            UPDATE chats SET last_message=$1, last_sender_id=$2, updated_at=$3 WHERE id=$4`,
			messaging.Preview(m.Content), m.SenderID, m.CreatedAt, m.ChatID)
		if err != nil {
			return wrapErr(err, "update chat")
		}
		return expectOne(res, "update chat")
	})
}

// ListMessages возвращает до limit сообщений до момента before (или последние),
// в хронологическом порядке.
func (s *Storage) ListMessages(ctx context.Context, chatID uuid.UUID, before *time.Time, limit int) ([]models.Message, error) {
	msgs := []models.Message{}
	var err error
	if before != nil {
		err = s.db.SelectContext(ctx, &msgs, `
            SELECT * FROM messages WHERE chat_id=$1 AND created_at < $2
            ORDER BY created_at DESC LIMIT $3`, chatID, *before, limit)
	} else {
		err = s.db.SelectContext(ctx, &msgs, `
            SELECT * FROM messages WHERE chat_id=$1
            ORDER BY created_at DESC LIMIT $2`, chatID, limit)
	}
	if err != nil {
		return nil, wrapErr(err, "list messages")
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkChatRead обнуляет счётчик читателя и отмечает сообщения прочитанными.
func (s *Storage) MarkChatRead(ctx context.Context, chatID, userID uuid.UUID) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE chat_participants SET unread_count = 0 WHERE chat_id=$1 AND user_id=$2`, chatID, userID)
		if err != nil {
			return wrapErr(err, "reset unread")
		}
		if err := expectOne(res, "reset unread"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
            UPDATE messages SET read_by = array_append(read_by, $2::text)
            WHERE chat_id=$1 AND NOT ($2::text = ANY(read_by))`, chatID, userID.String())
		return wrapErr(err, "mark messages read")
	})
}
