package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payslip-ledger-go/internal/handler/http"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/repository/postgresql"
	ledgerService "github.com/cmlabs-hris/payslip-ledger-go/internal/service/ledger"
	mappingService "github.com/cmlabs-hris/payslip-ledger-go/internal/service/mapping"
	payslipService "github.com/cmlabs-hris/payslip-ledger-go/internal/service/payslip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := appHTTP.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	txManager := postgresql.NewTxManager(db)
	mappingRepo := postgresql.NewMappingRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	mappingSvc := mappingService.NewMappingService(mappingRepo)
	payslipSvc := payslipService.NewPayslipService(txManager, documentRepo, mappingRepo, fileStorage)
	ledgerSvc := ledgerService.NewLedgerService(documentRepo, mappingRepo)

	scheduler := cron.NewScheduler()
	cron.NewArchiveJobs(fileStorage, time.Duration(cfg.Storage.RetentionDays)*24*time.Hour).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg,
		logger,
		JWTService,
		appHTTP.NewMappingHandler(mappingSvc),
		appHTTP.NewPayslipHandler(payslipSvc, cfg.Import.MaxUploadBytes),
		appHTTP.NewLedgerHandler(ledgerSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
