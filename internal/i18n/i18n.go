// Package i18n хранит локализованные (en/tr) тексты ответов API.
package i18n

import (
	"fmt"
	"net/http"

	"golang.org/x/text/language"
)

const (
	EN = "en"
	TR = "tr"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Turkish})

// Ключи сообщений
const (
	MsgInvalidJSON          = "invalid_json"
	MsgInvalidID            = "invalid_id"
	MsgValidation           = "validation"
	MsgUnauthorized         = "unauthorized"
	MsgForbidden            = "forbidden"
	MsgInternal             = "internal"
	MsgPasswordMismatch     = "password_mismatch"
	MsgEmailTaken           = "email_taken"
	MsgInvalidCredentials   = "invalid_credentials"
	MsgAdminOnly            = "admin_only"
	MsgShipownerOnly        = "shipowner_only"
	MsgSupplierOnly         = "supplier_only"
	MsgInvalidCategory      = "invalid_category"
	MsgDeadlinePassed       = "deadline_passed"
	MsgRFQNotFound          = "rfq_not_found"
	MsgRFQNotOpen           = "rfq_not_open"
	MsgQuotationNotFound    = "quotation_not_found"
	MsgQuotationNotPending  = "quotation_not_pending"
	MsgDuplicateQuotation   = "duplicate_quotation"
	MsgOrderNotFound        = "order_not_found"
	MsgInvalidTransition    = "invalid_transition"
	MsgVersionConflict      = "version_conflict"
	MsgChatNotFound         = "chat_not_found"
	MsgNotParticipant       = "not_participant"
	MsgSelfChat             = "self_chat"
	MsgUserNotFound         = "user_not_found"
	MsgReviewNotAllowed     = "review_not_allowed"
	MsgReviewExists         = "review_exists"
	MsgReviewFilterRequired = "review_filter_required"
	MsgSupplierTypeRequired = "supplier_type_required"
)

var messages = map[string]map[string]string{
	MsgInvalidJSON:          {EN: "Invalid JSON format", TR: "Geçersiz JSON biçimi"},
	MsgInvalidID:            {EN: "Invalid %s", TR: "Geçersiz %s"},
	MsgValidation:           {EN: "Validation failed: %s", TR: "Doğrulama hatası: %s"},
	MsgUnauthorized:         {EN: "Authentication required", TR: "Oturum açmanız gerekiyor"},
	MsgForbidden:            {EN: "Forbidden", TR: "Bu işlem için yetkiniz yok"},
	MsgInternal:             {EN: "Internal server error", TR: "Sunucu hatası"},
	MsgPasswordMismatch:     {EN: "Passwords do not match", TR: "Şifreler eşleşmiyor"},
	MsgEmailTaken:           {EN: "Email is already registered", TR: "Bu e-posta zaten kayıtlı"},
	MsgInvalidCredentials:   {EN: "Invalid email or password", TR: "E-posta veya şifre hatalı"},
	MsgAdminOnly:            {EN: "Only an admin can create admin accounts", TR: "Yönetici hesabını yalnızca yönetici oluşturabilir"},
	MsgShipownerOnly:        {EN: "Only shipowners can perform this action", TR: "Bu işlemi yalnızca armatörler yapabilir"},
	MsgSupplierOnly:         {EN: "Only suppliers can perform this action", TR: "Bu işlemi yalnızca tedarikçiler yapabilir"},
	MsgInvalidCategory:      {EN: "Invalid category or subcategory", TR: "Geçersiz kategori veya alt kategori"},
	MsgDeadlinePassed:       {EN: "RFQ deadline has passed", TR: "Teklif talebinin son tarihi geçti"},
	MsgRFQNotFound:          {EN: "RFQ not found", TR: "Teklif talebi bulunamadı"},
	MsgRFQNotOpen:           {EN: "RFQ is not open", TR: "Teklif talebi açık değil"},
	MsgQuotationNotFound:    {EN: "Quotation not found", TR: "Teklif bulunamadı"},
	MsgQuotationNotPending:  {EN: "Quotation is not pending", TR: "Teklif beklemede değil"},
	MsgDuplicateQuotation:   {EN: "You already have a pending quotation for this RFQ", TR: "Bu talep için bekleyen bir teklifiniz zaten var"},
	MsgOrderNotFound:        {EN: "Order not found", TR: "Sipariş bulunamadı"},
	MsgInvalidTransition:    {EN: "Invalid status transition: %s -> %s", TR: "Geçersiz durum geçişi: %s -> %s"},
	MsgVersionConflict:      {EN: "Order was modified by another request, reload and retry", TR: "Sipariş başka bir istek tarafından değiştirildi, yenileyip tekrar deneyin"},
	MsgChatNotFound:         {EN: "Chat not found", TR: "Sohbet bulunamadı"},
	MsgNotParticipant:       {EN: "Only chat participants can do this", TR: "Bunu yalnızca sohbet katılımcıları yapabilir"},
	MsgSelfChat:             {EN: "Cannot start a chat with yourself", TR: "Kendinizle sohbet başlatamazsınız"},
	MsgUserNotFound:         {EN: "User not found", TR: "Kullanıcı bulunamadı"},
	MsgReviewNotAllowed:     {EN: "Only the shipowner of a delivered order can review it", TR: "Yalnızca teslim edilmiş siparişin armatörü değerlendirme yapabilir"},
	MsgReviewExists:         {EN: "This order has already been reviewed", TR: "Bu sipariş zaten değerlendirildi"},
	MsgReviewFilterRequired: {EN: "supplierId or orderId is required", TR: "supplierId veya orderId gerekli"},
	MsgSupplierTypeRequired: {EN: "Supplier type is not set", TR: "Tedarikçi türü belirtilmemiş"},
}

// T возвращает сообщение key на языке locale. Неизвестный язык - английский,
// неизвестный ключ - сам ключ.
func T(locale, key string, args ...any) string {
	texts, ok := messages[key]
	if !ok {
		return key
	}
	text, ok := texts[locale]
	if !ok {
		text = texts[EN]
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Locale определяет язык запроса: ?locale=, затем Accept-Language, затем fallback.
func Locale(r *http.Request, fallback string) string {
	if l := r.URL.Query().Get("locale"); l == EN || l == TR {
		return l
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		tags, _, err := language.ParseAcceptLanguage(h)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				if idx == 1 {
					return TR
				}
				return EN
			}
		}
	}
	if fallback == TR {
		return TR
	}
	return EN
}
