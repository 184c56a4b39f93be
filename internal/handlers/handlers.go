package handlers

import (
	"net/http"

	_ "github.com/vmalakhov/banksettle/docs"
	authhandlers "github.com/vmalakhov/banksettle/internal/handlers/auth"
	balancehandlers "github.com/vmalakhov/banksettle/internal/handlers/balance"
	transfershandlers "github.com/vmalakhov/banksettle/internal/handlers/transfers"
	"github.com/vmalakhov/banksettle/internal/service"
	"github.com/vmalakhov/banksettle/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type TransferHandler interface {
	SubmitTransfer(w http.ResponseWriter, r *http.Request)
	GetTransfer(w http.ResponseWriter, r *http.Request)
	GetTransactionHistory(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler     AuthHandler
	BalanceHandler  BalanceHandler
	TransferHandler TransferHandler

	resolver auth.TokenResolver
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:     authhandlers.New(s.AuthService),
		BalanceHandler:  balancehandlers.New(s.BalanceService),
		TransferHandler: transfershandlers.New(s.TransferService),
		resolver:        s.TokenResolver,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.resolver))
			r.Get("/balance", h.BalanceHandler.GetBalance)
			r.Route("/transfers", func(r chi.Router) {
				r.Post("/", h.TransferHandler.SubmitTransfer)
				r.Get("/", h.TransferHandler.GetTransactionHistory)
				r.Get("/{id}", h.TransferHandler.GetTransfer)
			})
		})
	})

	return r
}
