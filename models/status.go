package models

// Role роль пользователя платформы
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleShipowner Role = "shipowner"
	RoleSupplier  Role = "supplier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleShipowner, RoleSupplier:
		return true
	}
	return false
}

// SupplierType разделяет поставщиков товаров и сервисные компании
type SupplierType string

const (
	SupplierTypeSupplier        SupplierType = "supplier"
	SupplierTypeServiceProvider SupplierType = "service_provider"
)

func (t SupplierType) Valid() bool {
	return t == SupplierTypeSupplier || t == SupplierTypeServiceProvider
}

type RFQStatus string

const (
	RFQOpen    RFQStatus = "open"
	RFQClosed  RFQStatus = "closed"
	RFQAwarded RFQStatus = "awarded"
)

func (s RFQStatus) Valid() bool {
	switch s {
	case RFQOpen, RFQClosed, RFQAwarded:
		return true
	}
	return false
}

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
)

func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationPending, QuotationAccepted, QuotationRejected:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderInProgress OrderStatus = "in_progress"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderInProgress, OrderShipped,
		OrderDelivered, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Fulfilled - заказ исполнен (учитывается в суммах расходов и выручки)
func (s OrderStatus) Fulfilled() bool {
	return s == OrderDelivered || s == OrderCompleted
}

// Active - заказ ещё в работе
func (s OrderStatus) Active() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderInProgress, OrderShipped:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending              PaymentStatus = "pending"
	PaymentAwaitingConfirmation PaymentStatus = "payment_awaiting_confirmation"
	PaymentPaid                 PaymentStatus = "paid"
	PaymentRefunded             PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentAwaitingConfirmation, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type MessageType string

const (
	MessageText      MessageType = "text"
	MessageSystem    MessageType = "system"
	MessageQuotation MessageType = "quotation"
	MessageOrder     MessageType = "order"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageSystem, MessageQuotation, MessageOrder:
		return true
	}
	return false
}
