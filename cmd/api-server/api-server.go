package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipsupply/db"
	"shipsupply/db/migrations"
	"shipsupply/internal/auth"
	"shipsupply/internal/config"
	"shipsupply/internal/feed"
	"shipsupply/internal/handlers"
	mw "shipsupply/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		log.Fatalf("Cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	if err := migrations.Run(dbConn.DB); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	store := db.NewStorage(dbConn)
	hub := feed.NewHub()
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	h := handlers.NewHandler(store, hub, issuer, handlers.Options{
		RejectSiblingQuotations: cfg.RejectSiblingQuotations,
		DefaultLocale:           cfg.DefaultLocale,
		WSInsecureSkipVerify:    cfg.WSInsecureSkipVerify,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		r.Get("/categories", h.CategoriesHandler)
		r.Post("/users/create", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)
		// websocket проверяет токен из query сам
		r.Get("/ws", h.WSHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(issuer, store, cfg.DefaultLocale))

			r.Post("/auth/logout", h.LogoutHandler)
			r.Get("/users/me", h.MeHandler)
			r.Get("/users/list", h.ListUsersHandler)
			r.Post("/supplier/auto-populate", h.AutoPopulateHandler)
			// запросы котировок
			r.Post("/rfq/create", h.CreateRFQHandler)
			r.Get("/rfq/list", h.ListRFQsHandler)
			r.Post("/rfq/close", h.CloseRFQHandler)
			r.Get("/rfq/{rfqId}", h.GetRFQHandler)
			// котировки
			r.Post("/quotation/create", h.CreateQuotationHandler)
			r.Get("/quotation/list", h.ListQuotationsHandler)
			r.Post("/quotation/accept", h.AcceptQuotationHandler)
			r.Post("/quotation/reject", h.RejectQuotationHandler)
			// заказы
			r.Get("/order/list", h.ListOrdersHandler)
			r.Post("/order/update-status", h.UpdateOrderStatusHandler)
			r.Post("/order/update-payment", h.UpdatePaymentStatusHandler)
			r.Get("/order/{orderId}", h.GetOrderHandler)
			r.Get("/order/{orderId}/timeline", h.OrderTimelineHandler)
			// чаты
			r.Post("/chat/create", h.CreateChatHandler)
			r.Get("/chat/list", h.ListChatsHandler)
			r.Post("/chat/read", h.MarkChatReadHandler)
			r.Get("/chat/{chatId}/messages", h.ListMessagesHandler)
			r.Post("/message/send", h.SendMessageHandler)
			// отзывы
			r.Post("/review/create", h.CreateReviewHandler)
			r.Get("/review/list", h.ListReviewsHandler)

			r.Get("/dashboard", h.DashboardHandler)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
