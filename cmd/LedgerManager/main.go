package main

import (
	"context"
	"encoding/json"
	"errors"
	database "github.com/sebuszqo/LedgerManager/db"
	"github.com/sebuszqo/LedgerManager/internal/auth"
	"github.com/sebuszqo/LedgerManager/internal/company"
	"github.com/sebuszqo/LedgerManager/internal/config"
	emailService "github.com/sebuszqo/LedgerManager/internal/email"
	financeApp "github.com/sebuszqo/LedgerManager/internal/finance/application"
	financeInfra "github.com/sebuszqo/LedgerManager/internal/finance/infrastructure"
	financeHandlers "github.com/sebuszqo/LedgerManager/internal/finance/interfaces"
	"github.com/sebuszqo/LedgerManager/internal/logging"
	"github.com/sebuszqo/LedgerManager/internal/scheduler"
	"go.uber.org/zap"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type Response struct {
	Message string `json:"message"`
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("Request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

type Server struct {
	router             *http.ServeMux
	db                 *database.DBService
	jwtManager         auth.JWTManagerInterface
	companyHandler     *company.CompanyHandler
	accountHandler     *financeHandlers.AccountHandler
	contactHandler     *financeHandlers.ContactHandler
	transactionHandler *financeHandlers.TransactionHandler
	recurringHandler   *financeHandlers.RecurringHandler
	catalogHandler     *financeHandlers.CatalogHandler
	logger             *zap.Logger
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	status := http.StatusOK
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	financeHandlers.RespondJSON(w, status, map[string]string{
		"status":   "ready",
		"database": health["status"],
	})
}

// protected wraps h with the JWT middleware and, when params are given, the company
// path-parameter middleware.
func (s *Server) protected(h http.HandlerFunc, params ...string) http.Handler {
	var handler http.Handler = h
	if len(params) > 0 {
		handler = s.companyHandler.ValidateCompanyPathParamsMiddleware(handler, params...)
	}
	return auth.JWTAccessTokenMiddleware(s.jwtManager, s.logger)(handler)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	protectedRoutes := http.NewServeMux()
	const base = "/api/protected/companies/{companyID}"

	// COMPANIES API
	protectedRoutes.Handle("POST /api/protected/companies", s.protected(s.companyHandler.CreateCompany))
	protectedRoutes.Handle("GET /api/protected/companies", s.protected(s.companyHandler.GetAllCompanies))
	protectedRoutes.Handle("GET "+base, s.protected(s.companyHandler.GetCompany, "companyID"))
	protectedRoutes.Handle("PUT "+base, s.protected(s.companyHandler.UpdateCompany, "companyID"))
	protectedRoutes.Handle("DELETE "+base, s.protected(s.companyHandler.DeleteCompany, "companyID"))

	// BANK ACCOUNTS API
	protectedRoutes.Handle("POST "+base+"/bank-accounts", s.protected(s.accountHandler.CreateBankAccount, "companyID"))
	protectedRoutes.Handle("GET "+base+"/bank-accounts", s.protected(s.accountHandler.GetBankAccounts, "companyID"))
	protectedRoutes.Handle("GET "+base+"/bank-accounts/{accountID}",
		s.protected(s.accountHandler.GetBankAccount, "companyID", "accountID"))
	protectedRoutes.Handle("DELETE "+base+"/bank-accounts/{accountID}",
		s.protected(s.accountHandler.DeleteBankAccount, "companyID", "accountID"))

	// CHART OF ACCOUNTS API
	protectedRoutes.Handle("POST "+base+"/chart-accounts", s.protected(s.accountHandler.CreateChartAccount, "companyID"))
	protectedRoutes.Handle("GET "+base+"/chart-accounts", s.protected(s.accountHandler.GetChartAccounts, "companyID"))
	protectedRoutes.Handle("GET "+base+"/chart-accounts/{chartAccountID}",
		s.protected(s.accountHandler.GetChartAccount, "companyID", "chartAccountID"))
	protectedRoutes.Handle("DELETE "+base+"/chart-accounts/{chartAccountID}",
		s.protected(s.accountHandler.DeleteChartAccount, "companyID", "chartAccountID"))

	// CONTACTS API
	protectedRoutes.Handle("POST "+base+"/contacts", s.protected(s.contactHandler.CreateContact, "companyID"))
	protectedRoutes.Handle("GET "+base+"/contacts", s.protected(s.contactHandler.GetContacts, "companyID"))
	protectedRoutes.Handle("GET "+base+"/contacts/{contactID}",
		s.protected(s.contactHandler.GetContact, "companyID", "contactID"))
	protectedRoutes.Handle("DELETE "+base+"/contacts/{contactID}",
		s.protected(s.contactHandler.DeleteContact, "companyID", "contactID"))

	// TRANSACTIONS API
	protectedRoutes.Handle("POST "+base+"/transactions", s.protected(s.transactionHandler.CreateTransaction, "companyID"))
	protectedRoutes.Handle("POST "+base+"/transactions/bulk", s.protected(s.transactionHandler.CreateTransactionsBulk, "companyID"))
	protectedRoutes.Handle("GET "+base+"/transactions", s.protected(s.transactionHandler.GetTransactions, "companyID"))
	protectedRoutes.Handle("GET "+base+"/transactions/summary", s.protected(s.transactionHandler.GetTransactionSummary, "companyID"))
	protectedRoutes.Handle("GET "+base+"/transactions/summary/chart-accounts",
		s.protected(s.transactionHandler.GetTransactionSummaryByChartAccount, "companyID"))
	protectedRoutes.Handle("GET "+base+"/transactions/{transactionID}",
		s.protected(s.transactionHandler.GetTransaction, "companyID", "transactionID"))
	protectedRoutes.Handle("PATCH "+base+"/transactions/{transactionID}/status",
		s.protected(s.transactionHandler.UpdateTransactionStatus, "companyID", "transactionID"))
	protectedRoutes.Handle("DELETE "+base+"/transactions/{transactionID}",
		s.protected(s.transactionHandler.DeleteTransaction, "companyID", "transactionID"))

	// RECURRING TRANSACTIONS API
	protectedRoutes.Handle("POST "+base+"/recurring", s.protected(s.recurringHandler.CreateRecurring, "companyID"))
	protectedRoutes.Handle("GET "+base+"/recurring", s.protected(s.recurringHandler.GetAllRecurring, "companyID"))
	protectedRoutes.Handle("POST "+base+"/recurring/generate", s.protected(s.recurringHandler.GenerateRecurring, "companyID"))
	protectedRoutes.Handle("GET "+base+"/recurring/{recurringID}",
		s.protected(s.recurringHandler.GetRecurring, "companyID", "recurringID"))
	protectedRoutes.Handle("PUT "+base+"/recurring/{recurringID}",
		s.protected(s.recurringHandler.UpdateRecurring, "companyID", "recurringID"))
	protectedRoutes.Handle("DELETE "+base+"/recurring/{recurringID}",
		s.protected(s.recurringHandler.DeleteRecurring, "companyID", "recurringID"))
	protectedRoutes.Handle("POST "+base+"/recurring/{recurringID}/deactivate",
		s.protected(s.recurringHandler.DeactivateRecurring, "companyID", "recurringID"))
	protectedRoutes.Handle("GET "+base+"/recurring/{recurringID}/preview",
		s.protected(s.recurringHandler.PreviewRecurring, "companyID", "recurringID"))

	// CATALOG
	protectedRoutes.Handle("GET /api/protected/payment-methods", s.protected(s.catalogHandler.GetPaymentMethods))
	protectedRoutes.Handle("GET /api/protected/frequencies", s.protected(s.catalogHandler.GetFrequencies))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, logger)
	if err != nil {
		logger.Fatal("Could not initialize database", zap.Error(err))
	}
	defer dbService.Close()

	if err := dbService.Migrate(ctx); err != nil {
		logger.Fatal("Could not apply migrations", zap.Error(err))
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Could not initialize JWT manager", zap.Error(err))
	}

	companyRepo := company.NewCompanyRepository(dbService.DB)
	companyService := company.NewCompanyService(companyRepo)
	companyHandler := company.NewCompanyHandler(companyService, financeHandlers.RespondJSON, financeHandlers.RespondError, logger)

	transactor := financeInfra.NewSQLTransactor(dbService.DB, logger)
	bankAccountService := financeApp.NewBankAccountService(financeInfra.NewBankAccountRepository(dbService.DB))
	chartAccountService := financeApp.NewChartAccountService(financeInfra.NewChartAccountRepository(dbService.DB))
	contactService := financeApp.NewContactService(financeInfra.NewContactRepository(dbService.DB))

	transactionService := financeApp.NewTransactionService(
		financeInfra.NewTransactionRepository(dbService.DB),
		transactor,
		chartAccountService,
		bankAccountService,
		contactService,
		logger,
	)
	recurringService := financeApp.NewRecurringService(
		financeInfra.NewRecurringRepository(dbService.DB),
		transactionService,
		transactor,
		chartAccountService,
		bankAccountService,
		contactService,
		cfg.Recurring.HorizonDays,
		logger,
	)

	var mailer *emailService.EmailService
	if cfg.Email.Enabled() {
		mailer = emailService.NewEmailService(cfg.Email, logger)
		recurringService.SetNotifier(emailService.NewGenerationMailer(mailer, companyService))
	} else {
		logger.Warn("Email is not configured, generation summaries will not be sent")
	}

	generationScheduler, err := scheduler.New(recurringService, cfg.Recurring.Schedule, logger)
	if err != nil {
		logger.Fatal("Scheduler didn't start, stopping the app", zap.Error(err))
	}

	server := &Server{
		db:                 dbService,
		jwtManager:         jwtManager,
		companyHandler:     companyHandler,
		accountHandler:     financeHandlers.NewAccountHandler(bankAccountService, chartAccountService, financeHandlers.RespondJSON, financeHandlers.RespondError, logger),
		contactHandler:     financeHandlers.NewContactHandler(contactService, financeHandlers.RespondJSON, financeHandlers.RespondError, logger),
		transactionHandler: financeHandlers.NewTransactionHandler(transactionService, financeHandlers.RespondJSON, financeHandlers.RespondError, logger),
		recurringHandler:   financeHandlers.NewRecurringHandler(recurringService, generationScheduler, financeHandlers.RespondJSON, financeHandlers.RespondError, logger),
		catalogHandler:     financeHandlers.NewCatalogHandler(financeApp.NewCatalogService(), financeHandlers.RespondJSON, financeHandlers.RespondError, logger),
		logger:             logger,
	}
	server.RegisterRoutes()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		generationScheduler.Start(ctx)
	}()

	if cfg.Development {
		logger.Info("Starting pprof on localhost:6060")
		go func() {
			logger.Info("pprof stopped", zap.Error(http.ListenAndServe("localhost:6060", nil)))
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(server.router, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	wg.Wait()
	if mailer != nil {
		mailer.Close()
	}
}
