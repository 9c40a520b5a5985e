package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sika/internal/amqp"
	"sika/internal/backend"
	"sika/internal/config"
	apphttp "sika/internal/http"
	applog "sika/internal/log"
	"sika/internal/notify"
	"sika/internal/services"
	"sika/internal/tasks"
	"sika/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting sika")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st, cleanup, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.StoreBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to open record store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	defer cleanup()
	logger.Info("Record store initialized", "backend", cfg.StoreBackend)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.TwilioAccountSID != "" {
		notifier = notify.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		logger.Info("Twilio SMS notifier initialized")
	} else {
		logger.Info("SMS disabled - no TWILIO_ACCOUNT_SID provided")
	}

	statsWorker := worker.NewStatsWorker(st, services.NewStatsService(st), notifier)

	// Background work goes through the broker when one is configured,
	// otherwise it runs on an in-process goroutine pool.
	var dispatcher tasks.Dispatcher
	var inProcess *tasks.InProcess
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		dispatcher = tasks.NewAMQP(amqpClient)
		logger.Info("AMQP dispatcher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		inProcess = tasks.NewInProcess(statsWorker.Process, cfg.DispatchWorkers, cfg.DispatchTimeout)
		dispatcher = inProcess
		logger.Info("In-process dispatcher initialized", "workers", cfg.DispatchWorkers)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:              ":" + cfg.Port,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, st, dispatcher, logger.Logger)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting sika server", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()

	// Let already-scheduled background work finish before exiting.
	if inProcess != nil {
		inProcess.Wait()
	}
	logger.Info("Server stopped gracefully")
}
