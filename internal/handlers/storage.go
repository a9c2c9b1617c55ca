package handlers

import (
	"context"
	"time"

	"shipsupply/db"
	"shipsupply/models"

	"github.com/google/uuid"
)

type StorageInterface interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserCategories(ctx context.Context, id uuid.UUID, categories []string) error

	CreateSession(ctx context.Context, sess *models.Session) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	SessionActive(ctx context.Context, id uuid.UUID) (bool, error)

	CreateRFQ(ctx context.Context, r *models.RFQ) error
	GetRFQ(ctx context.Context, id uuid.UUID) (*models.RFQ, error)
	ListRFQs(ctx context.Context, f db.RFQFilter) ([]models.RFQ, error)
	UpdateRFQStatus(ctx context.Context, id uuid.UUID, from, to models.RFQStatus) error

	CreateQuotation(ctx context.Context, q *models.Quotation) error
	GetQuotation(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	ListQuotations(ctx context.Context, f db.QuotationFilter) ([]models.Quotation, error)
	AcceptQuotation(ctx context.Context, p db.AcceptParams) ([]models.Quotation, error)
	RejectQuotation(ctx context.Context, id uuid.UUID) error

	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f db.OrderFilter) ([]models.Order, error)
	ListOrderEvents(ctx context.Context, orderID uuid.UUID) ([]models.OrderEvent, error)
	ApplyOrderEvent(ctx context.Context, o *models.Order, expectedVersion int, ev *models.OrderEvent) error

	CreateChat(ctx context.Context, c *models.Chat) (bool, error)
	GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]models.Chat, error)
	CreateMessage(ctx context.Context, m *models.Message, recipients []uuid.UUID) error
	ListMessages(ctx context.Context, chatID uuid.UUID, before *time.Time, limit int) ([]models.Message, error)
	MarkChatRead(ctx context.Context, chatID, userID uuid.UUID) error

	CreateReview(ctx context.Context, r *models.Review) error
	ListReviews(ctx context.Context, f db.ReviewFilter) ([]models.Review, error)
}
