package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	database "github.com/mwalkowiak/BudgetTracker/db"
	"github.com/mwalkowiak/BudgetTracker/internal/auth"
	"github.com/mwalkowiak/BudgetTracker/internal/config"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/application"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/infrastructure"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/interfaces"
)

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("Request completed")
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"error": message})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

func newRouter(
	dbService *database.DBService,
	authService auth.Service,
	authHandler *auth.Handler,
	accountHandler *interfaces.AccountHandler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.TransactionHandler,
	summaryHandler *interfaces.SummaryHandler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.NotFound(notFoundHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, dbService.Health())
		})

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(authService.RequireUser)

			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/2fa/setup", authHandler.HandleSetupTwoFactor)
			r.Post("/auth/2fa/verify", authHandler.HandleVerifyTwoFactor)
			r.Delete("/auth/2fa", authHandler.HandleDisableTwoFactor)

			r.Mount("/accounts", accountHandler.Routes())
			r.Mount("/categories", categoryHandler.Routes())
			r.Mount("/transactions", transactionHandler.Routes())
			r.Get("/summary", summaryHandler.Get)
		})
	})

	return r
}

// startSessionSweeper removes expired refresh sessions on an hourly schedule.
func startSessionSweeper(authService auth.Service) error {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		deleted, err := authService.DeleteExpiredSessions(context.Background())
		if err != nil {
			log.Errorf("Error deleting expired sessions: %v", err)
			return
		}
		if deleted > 0 {
			log.Infof("Deleted %d expired sessions", deleted)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	dbService, err := database.NewDBService(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := infrastructure.Migrate(context.Background(), dbService.DB); err != nil {
		log.Fatalf("Could not run migrations: %v", err)
	}

	sb := infrastructure.Postgres()

	userRepo := auth.NewUserRepository(dbService.DB, sb)
	sessionRepo := auth.NewSessionRepository(dbService.DB, sb)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	authService := auth.NewService(userRepo, sessionRepo, jwtManager, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandler := auth.NewHandler(authService)

	accountRepo := infrastructure.NewAccountRepository(dbService.DB, sb)
	accountService := application.NewAccountService(accountRepo)
	accountHandler := interfaces.NewAccountHandler(accountService, respondJSON, respondError)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB, sb)
	categoryService := application.NewCategoryService(categoryRepo)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB, sb)
	transactionService := application.NewTransactionService(transactionRepo, accountService, categoryService)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)

	summaryService := application.NewSummaryService(transactionRepo)
	summaryHandler := interfaces.NewSummaryHandler(summaryService, respondJSON, respondError)

	router := newRouter(dbService, authService, authHandler, accountHandler, categoryHandler, transactionHandler, summaryHandler)

	if err := startSessionSweeper(authService); err != nil {
		log.Fatalf("Session sweeper didn't start, stopping the app: %v", err)
	}

	log.Infof("Server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
