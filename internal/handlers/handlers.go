package handlers

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"shipsupply/internal/auth"
	"shipsupply/internal/catalog"
	"shipsupply/internal/feed"

	"github.com/go-playground/validator/v10"
)

// Options - настройки поведения обработчиков из конфигурации
type Options struct {
	RejectSiblingQuotations bool
	DefaultLocale           string
	WSInsecureSkipVerify    bool
}

// Handler оборачивает Storage для доступа к данным
type Handler struct {
	Store  StorageInterface
	Hub    *feed.Hub
	Feed   feed.Publisher
	Issuer *auth.Issuer
	Opts   Options

	validate *validator.Validate
	now      func() time.Time
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, hub *feed.Hub, issuer *auth.Issuer, opts Options) *Handler {
	v := validator.New()
	// в ошибках валидации - имена полей из json
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	h := &Handler{
		Store:    store,
		Hub:      hub,
		Issuer:   issuer,
		Opts:     opts,
		validate: v,
		now:      time.Now,
	}
	if hub != nil {
		h.Feed = hub
	}
	return h
}

// SetClock подменяет источник времени (для тестов)
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// CategoriesHandler возвращает справочник категорий
func (h *Handler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]interface{}{"categories": catalog.Categories()})
}
