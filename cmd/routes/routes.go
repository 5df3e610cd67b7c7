package routes

import (
	"context"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/zjoart/instantpay-wallet/docs"
	"github.com/zjoart/instantpay-wallet/internal/app"
	"github.com/zjoart/instantpay-wallet/internal/auth"
	"github.com/zjoart/instantpay-wallet/internal/bill"
	"github.com/zjoart/instantpay-wallet/internal/middleware"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/internal/referral"
	"github.com/zjoart/instantpay-wallet/internal/wallet"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts the API on r. ctx bounds the rate limiter's
// background cleanup.
func RegisterRoutes(ctx context.Context, r *mux.Router, a *app.App) http.Handler {
	cfg := a.Config

	authHandler := auth.NewHandler(cfg, a.Users, a.Referrals, a.Notifications)
	walletHandler := wallet.NewHandler(a.Wallet)
	billHandler := bill.NewHandler(a.BillRepo, cfg.BillFee)
	referralHandler := referral.NewHandler(a.Referrals)
	notificationHandler := notification.NewHandler(a.Notifications)

	jwtAuth := auth.JWTMiddleware(cfg, a.UserRepo)

	loginLimiter := middleware.NewRateLimiter(rate.Limit(cfg.LoginRatePerSec), cfg.LoginBurst)
	loginLimiter.StartCleanup(ctx)

	r.Use(middleware.LoggingMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Route not found", nil)
	})

	api := r.PathPrefix("/api").Subrouter()

	authR := api.PathPrefix("/auth").Subrouter()
	authR.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	authR.Handle("/login", loginLimiter.Limit(http.HandlerFunc(authHandler.Login))).Methods("POST")
	authR.Handle("/verify", jwtAuth(http.HandlerFunc(authHandler.Verify))).Methods("POST")

	api.HandleFunc("/bills/categories", billHandler.Categories).Methods("GET")

	private := api.PathPrefix("").Subrouter()
	private.Use(jwtAuth)
	private.HandleFunc("/me", authHandler.Me).Methods("GET")

	private.HandleFunc("/wallet/balance", walletHandler.GetWalletBalance).Methods("GET")
	private.HandleFunc("/wallet/transfer", walletHandler.TransferFunds).Methods("POST")
	private.HandleFunc("/wallet/deposit", walletHandler.WalletDeposit).Methods("POST")
	private.HandleFunc("/wallet/bills", walletHandler.PayBill).Methods("POST")
	private.HandleFunc("/wallet/transactions", walletHandler.GetTransactions).Methods("GET")
	private.HandleFunc("/wallet/transactions/export", walletHandler.ExportTransactions).Methods("GET")
	private.HandleFunc("/wallet/transactions/{reference}", walletHandler.GetTransaction).Methods("GET")

	private.HandleFunc("/bills", billHandler.History).Methods("GET")
	private.HandleFunc("/referrals", referralHandler.GetReferrals).Methods("GET")

	private.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	private.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods("POST")
	private.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("POST")

	if cfg.Env != "production" {
		apiDoc := docs.Render("/", cfg.MinTransactionAmount, cfg.BillFee)
		r.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			if _, err := w.Write(apiDoc); err != nil {
				logger.Warn("Failed to write swagger.yaml", logger.WithError(err))
			}
		})

		r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
			httpSwagger.URL("/swagger.yaml"),
		))
		logger.Info("Swagger documentation enabled at /swagger/index.html")
	}

	corsObj := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, "Content-Disposition"}),
	)

	return corsObj(r)
}
