package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/config"
	"github.com/sajjadaliuos1/Pharmasys/internal/infra"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"
	"github.com/sajjadaliuos1/Pharmasys/internal/router"
	"github.com/sajjadaliuos1/Pharmasys/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker pool for async tasks (invoice PDF generation, email delivery).
	// Handlers are wired here at the composition root so the pool has full
	// access to the infrastructure it needs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	invoiceRepo := repository.NewInvoiceRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	workerHandlers := &worker.WorkerHandlers{
		Invoice: worker.NewInvoiceWorker(invoiceRepo, saleRepo, dispatcher, cfg.PDFStoragePath, cfg.PharmacyName),
		Email:   worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Periodic re-attempt of invoices whose PDF generation failed earlier.
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		InvoiceRepo:    invoiceRepo,
		SaleRepo:       saleRepo,
		RDB:            rdb,
		PDFStoragePath: cfg.PDFStoragePath,
		PharmacyName:   cfg.PharmacyName,
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Pharmasys backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
