package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Сущность Пользователя
type User struct {
	ID           uuid.UUID      `db:"id" json:"uid"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         Role           `db:"role" json:"role"`
	CompanyName  string         `db:"company_name" json:"companyName"`
	SupplierType *SupplierType  `db:"supplier_type" json:"supplierType,omitempty"`
	Categories   pq.StringArray `db:"categories" json:"categories"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// Сущность Запроса котировок (RFQ)
type RFQ struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ShipownerID    uuid.UUID  `db:"shipowner_id" json:"shipownerId"`
	ShipownerName  string     `db:"shipowner_company" json:"shipownerCompany"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Category       string     `db:"category" json:"category"`
	Subcategory    string     `db:"subcategory" json:"subcategory,omitempty"`
	VesselName     *string    `db:"vessel_name" json:"vesselName,omitempty"`
	VesselType     *string    `db:"vessel_type" json:"vesselType,omitempty"`
	VesselIMO      *string    `db:"vessel_imo" json:"vesselImo,omitempty"`
	Deadline       time.Time  `db:"deadline" json:"deadline"`
	Status         RFQStatus  `db:"status" json:"status"`
	QuotationCount int        `db:"quotation_count" json:"quotationCount"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	AwardedAt      *time.Time `db:"awarded_at" json:"awardedAt,omitempty"`
}

// Сущность Котировки
type Quotation struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	RFQID              uuid.UUID       `db:"rfq_id" json:"rfqId"`
	SupplierID         uuid.UUID       `db:"supplier_id" json:"supplierId"`
	SupplierCompany    string          `db:"supplier_company" json:"supplierCompany"`
	Price              decimal.Decimal `db:"price" json:"price"`
	Currency           string          `db:"currency" json:"currency"`
	DeliveryTime       string          `db:"delivery_time" json:"deliveryTime"`
	DeliveryLocation   string          `db:"delivery_location" json:"deliveryLocation"`
	Specifications     string          `db:"specifications" json:"specifications,omitempty"`
	Notes              string          `db:"notes" json:"notes,omitempty"`
	Status             QuotationStatus `db:"status" json:"status"`
	EstimatedReadyDate *time.Time      `db:"estimated_ready_date" json:"estimatedReadyDate,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
}

// Сущность Заказа. Status и PaymentStatus - проекция журнала событий order_events.
type Order struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	RFQID                uuid.UUID       `db:"rfq_id" json:"rfqId"`
	QuotationID          uuid.UUID       `db:"quotation_id" json:"quotationId"`
	ShipownerID          uuid.UUID       `db:"shipowner_id" json:"shipownerId"`
	ShipownerCompany     string          `db:"shipowner_company" json:"shipownerCompany"`
	SupplierID           uuid.UUID       `db:"supplier_id" json:"supplierId"`
	SupplierCompany      string          `db:"supplier_company" json:"supplierCompany"`
	Title                string          `db:"title" json:"title"`
	Amount               decimal.Decimal `db:"amount" json:"amount"`
	Currency             string          `db:"currency" json:"currency"`
	DeliveryTime         string          `db:"delivery_time" json:"deliveryTime"`
	DeliveryLocation     string          `db:"delivery_location" json:"deliveryLocation"`
	Status               OrderStatus     `db:"status" json:"status"`
	PaymentStatus        PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	ExpectedDeliveryDate *time.Time      `db:"expected_delivery_date" json:"expectedDeliveryDate,omitempty"`
	EstimatedReadyDate   *time.Time      `db:"estimated_ready_date" json:"estimatedReadyDate,omitempty"`
	Version              int             `db:"version" json:"version"`
	CreatedAt            time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updatedAt"`
}

// EventKind различает события статуса заказа и статуса оплаты
type EventKind string

const (
	EventCreated EventKind = "created"
	EventStatus  EventKind = "status"
	EventPayment EventKind = "payment"
)

// Запись журнала заказа (только добавление)
type OrderEvent struct {
	ID          int64     `db:"id" json:"id"`
	OrderID     uuid.UUID `db:"order_id" json:"orderId"`
	Seq         int       `db:"seq" json:"seq"`
	Kind        EventKind `db:"kind" json:"kind"`
	Status      string    `db:"status" json:"status"`
	Description string    `db:"description" json:"description,omitempty"`
	ActorID     uuid.UUID `db:"actor_id" json:"actorId"`
	CreatedAt   time.Time `db:"created_at" json:"timestamp"`
}

// Сущность Чата
type Chat struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	DedupKey       string            `db:"dedup_key" json:"-"`
	RFQID          *uuid.UUID        `db:"rfq_id" json:"rfqId,omitempty"`
	QuotationID    *uuid.UUID        `db:"quotation_id" json:"quotationId,omitempty"`
	OrderID        *uuid.UUID        `db:"order_id" json:"orderId,omitempty"`
	LastMessage    string            `db:"last_message" json:"lastMessage"`
	LastSenderID   *uuid.UUID        `db:"last_sender_id" json:"lastSenderId,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updatedAt"`
	Participants   []ChatParticipant `db:"-" json:"participants"`
	ParticipantIDs []uuid.UUID       `db:"-" json:"participantIds"`
	UnreadCount    map[string]int    `db:"-" json:"unreadCount"`
}

// Участник чата со своим счётчиком непрочитанных
type ChatParticipant struct {
	ChatID      uuid.UUID `db:"chat_id" json:"-"`
	UserID      uuid.UUID `db:"user_id" json:"uid"`
	Name        string    `db:"name" json:"name"`
	CompanyName string    `db:"company_name" json:"companyName"`
	UnreadCount int       `db:"unread_count" json:"-"`
}

// Сущность Сообщения
type Message struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	ChatID        uuid.UUID      `db:"chat_id" json:"chatId"`
	SenderID      uuid.UUID      `db:"sender_id" json:"senderId"`
	SenderName    string         `db:"sender_name" json:"senderName"`
	SenderCompany string         `db:"sender_company" json:"senderCompany"`
	Content       string         `db:"content" json:"content"`
	Type          MessageType    `db:"type" json:"type"`
	ReadBy        pq.StringArray `db:"read_by" json:"readBy"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// Сущность Отзыва
type Review struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OrderID     uuid.UUID `db:"order_id" json:"orderId"`
	ShipownerID uuid.UUID `db:"shipowner_id" json:"shipownerId"`
	SupplierID  uuid.UUID `db:"supplier_id" json:"supplierId"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     string    `db:"comment" json:"comment"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Сессия входа: создаётся при логине, удаляется при логауте
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"uid"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
