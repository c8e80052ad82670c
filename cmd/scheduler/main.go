package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/cache"
	accountRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/account"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	ledgerRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/ledger"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/jobs"
	completeElapsedUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_elapsed"
	completeSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
	expirePendingUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/expire_pending"
	sendRemindersUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/send_reminders"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
)

// jobTimeout ограничение одного запуска задачи
const jobTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ConsultationService scheduler...")

	var (
		metricsCollector *metrics.Metrics
		metricsSrv       *http.Server
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName + "_scheduler")

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Scheduler.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("Metrics endpoint exposed at %s%s", metricsSrv.Addr, cfg.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server failed: %v", err)
			}
		}()
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	sessionRepository := sessionRepo.NewRepository(wrappedDB)
	expertRepository := expertRepo.NewRepository(wrappedDB)
	accountRepository := accountRepo.NewRepository(wrappedDB)
	ledgerRepository := ledgerRepo.NewRepository(wrappedDB)

	// Истекшие заявки освобождают слоты, поэтому кэш доступных дат сбрасывается и отсюда
	var store cache.Cache = cache.NewNoop()
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedis(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to configure Redis: %v", err)
		}
		defer redisCache.Close()
		store = redisCache
	}
	availabilityCache := cache.NewAvailabilityCache(store, time.Duration(cfg.Redis.TTLSeconds)*time.Second, metricsCollector)

	// Очередь уведомлений
	publisher, err := notifier.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.NotificationExchange, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	dispatcher := notifier.NewDispatcher(publisher, cfg.RabbitMQ.QueueSize, cfg.RabbitMQ.Workers, metricsCollector)
	dispatcher.Start()
	go func() {
		for err := range dispatcher.Errors() {
			log.Warn("Notifier: %v", err)
		}
	}()

	// Use cases
	completeSessionUseCase := completeSessionUC.NewUseCase(
		sessionRepository,
		expertRepository,
		dispatcher,
		metricsCollector,
		txMgr,
		log,
	)
	completeElapsedUseCase := completeElapsedUC.NewUseCase(
		sessionRepository,
		completeSessionUseCase,
		cfg.Scheduler.BatchSize,
		log,
	)
	sendRemindersUseCase := sendRemindersUC.NewUseCase(
		sessionRepository,
		dispatcher,
		metricsCollector,
		time.Duration(cfg.Booking.ReminderLeadMinutes)*time.Minute,
		cfg.Scheduler.BatchSize,
		log,
	)

	expirePendingUseCase := expirePendingUC.NewUseCase(
		sessionRepository,
		accountRepository,
		ledgerRepository,
		dispatcher,
		availabilityCache,
		metricsCollector,
		txMgr,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		cfg.Scheduler.BatchSize,
		log,
	)

	// Планировщик
	scheduler := jobs.NewScheduler(
		jobs.NewJobs(completeElapsedUseCase, sendRemindersUseCase, expirePendingUseCase, jobTimeout, log),
		cfg.Scheduler.CompleteElapsedSchedule,
		cfg.Scheduler.RemindersSchedule,
		cfg.Scheduler.ExpirePendingSchedule,
		log,
	)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")

	// Дожидаемся текущих задач, затем отправляем оставшиеся уведомления
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error("Notifier queue not drained: %v", err)
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Metrics server forced to shutdown: %v", err)
		}
	}

	log.Info("Scheduler stopped gracefully")
}
