package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"booking-assistant/internal/api"
	"booking-assistant/internal/catalog"
	"booking-assistant/internal/config"
	"booking-assistant/internal/events"
	"booking-assistant/internal/ledger"
	applog "booking-assistant/internal/logger"
	"booking-assistant/internal/payment"
	"booking-assistant/internal/scanner"
	"booking-assistant/internal/session"
)

func openStorage(path string) *bun.DB {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("[Storage] Failed to create data directory: %v", err)
		}
	}
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		log.Fatalf("[Storage] Failed to open SQLite: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("[Storage] Failed to connect to SQLite: %v", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New())
}

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg := config.Load()
	logger := applog.NewLogger()
	defer logger.Close()

	bunDB := openStorage(cfg.Storage.Path)
	defer bunDB.Close()

	store := &ledger.DB{Bun: bunDB}
	if err := store.Init(); err != nil {
		logger.Fatal("STORAGE", "init kv store: "+err.Error())
	}

	led, err := ledger.Open(store, logger)
	if err != nil {
		logger.Fatal("LEDGER", "open ledger: "+err.Error())
	}

	var publisher events.Publisher
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer producer.Close()
		publisher = producer
	} else {
		publisher = &events.MockPublisher{Log: logger}
	}

	sess := session.New(
		catalog.New(),
		led,
		payment.NewSimulator(cfg.Payment.ProcessingDelay, logger),
		publisher,
		logger,
	)
	handler := api.NewHandler(sess, scanner.New(led), logger)

	r := chi.NewRouter()
	r.Group(handler.Routes)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("SERVER", "Booking assistant on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("SERVER", "HTTP error: "+err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	logger.Info("SERVER", "Shutdown complete")
}
