package http

import (
	"net/http"
	"time"

	jwtutil "salesdesk/pkg/jwt"
	"salesdesk/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter assembles the HTTP surface. Sale reads require authentication;
// sale mutations additionally require the Manager or Admin role.
func NewRouter(
	saleController *SaleController,
	authController *AuthController,
	jwtManager *jwtutil.JWTManager,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.NewRateLimiter(100, time.Minute).Middleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"salesdesk"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authController.Register)
		r.Post("/login", authController.Login)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtManager))

		r.Get("/", saleController.ListSales)
		r.Get("/{id}", saleController.GetSale)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Post("/", saleController.CreateSale)
			r.Put("/{id}", saleController.UpdateSale)
			r.Delete("/{id}", saleController.DeleteSale)
		})
	})

	return r
}
