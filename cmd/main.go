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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/cancel_session"
	completeSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/complete_session"
	confirmSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/confirm_session"
	createSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_session"
	getAvailableDatesHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_available_slots"
	getExpertScheduleHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_expert_schedule"
	getSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_session"
	getSessionLedgerHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_session_ledger"
	listSessionsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/list_sessions"
	rateSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/rate_session"
	refundSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/refund_session"
	updateExpertScheduleHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_expert_schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/cache"
	accountRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/account"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	ledgerRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/ledger"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/payments"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
	expertsService "github.com/m04kA/SMC-ConsultationService/internal/service/experts"
	sessionsService "github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	cancelSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/cancel_session"
	completeSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
	confirmSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_session"
	createSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_session"
	failPaymentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/fail_payment"
	getAvailableDatesUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
	rateSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/rate_session"
	refundSessionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/refund_session"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
)

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

	log.Info("Starting SMC-ConsultationService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	sessionRepository := sessionRepo.NewRepository(wrappedDB)
	expertRepository := expertRepo.NewRepository(wrappedDB)
	accountRepository := accountRepo.NewRepository(wrappedDB)
	ledgerRepository := ledgerRepo.NewRepository(wrappedDB)

	// Кэш доступных дат: Redis, если задан URL, иначе без кэша
	var store cache.Cache = cache.NewNoop()
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedis(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to configure Redis: %v", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn("Redis is not reachable, cache lookups will fall through: %v", err)
		}
		cancel()
		defer redisCache.Close()
		store = redisCache
		log.Info("Availability cache backed by Redis (ttl=%ds)", cfg.Redis.TTLSeconds)
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

	// Бизнес-правила расчетов
	commission := scheduling.NewCommissionEngine(cfg.Booking.PlatformCommissionRate)
	policy := scheduling.CancellationPolicy{
		FullRefundHours: float64(cfg.Booking.FullRefundHours),
		HalfRefundHours: float64(cfg.Booking.HalfRefundHours),
	}

	// Инициализируем сервисы
	sessionSvc := sessionsService.NewService(sessionRepository, ledgerRepository, log)
	expertSvc := expertsService.NewService(expertRepository, availabilityCache, txMgr, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(sessionRepository, expertRepository, log)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(sessionRepository, expertRepository, availabilityCache, log)

	createSessionUseCase := createSessionUC.NewUseCase(
		sessionRepository,
		expertRepository,
		accountRepository,
		ledgerRepository,
		commission,
		cfg.Booking.DefaultCurrency,
		dispatcher,
		availabilityCache,
		metricsCollector,
		txMgr,
		log,
	)
	confirmSessionUseCase := confirmSessionUC.NewUseCase(
		sessionRepository,
		ledgerRepository,
		dispatcher,
		metricsCollector,
		txMgr,
		log,
	)
	completeSessionUseCase := completeSessionUC.NewUseCase(
		sessionRepository,
		expertRepository,
		dispatcher,
		metricsCollector,
		txMgr,
		log,
	)
	cancelSessionUseCase := cancelSessionUC.NewUseCase(
		sessionRepository,
		expertRepository,
		accountRepository,
		ledgerRepository,
		policy,
		dispatcher,
		availabilityCache,
		metricsCollector,
		txMgr,
		log,
	)
	rateSessionUseCase := rateSessionUC.NewUseCase(
		sessionRepository,
		expertRepository,
		dispatcher,
		metricsCollector,
		txMgr,
		log,
	)
	refundSessionUseCase := refundSessionUC.NewUseCase(
		sessionRepository,
		accountRepository,
		ledgerRepository,
		dispatcher,
		availabilityCache,
		metricsCollector,
		txMgr,
		log,
	)
	failPaymentUseCase := failPaymentUC.NewUseCase(sessionRepository, dispatcher, txMgr, log)

	// События платежного провайдера (если настроен брокер)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	if cfg.RabbitMQ.URL != "" {
		consumer, err := payments.NewConsumer(cfg.RabbitMQ.URL, log)
		if err != nil {
			log.Fatal("Failed to connect payments consumer: %v", err)
		}
		defer consumer.Close()

		paymentsHandler := payments.NewHandler(confirmSessionUseCase, failPaymentUseCase, refundSessionUseCase, log)
		go func() {
			defer close(consumerDone)
			if err := consumer.Consume(consumerCtx, cfg.RabbitMQ.PaymentsExchange, cfg.RabbitMQ.PaymentsQueue, paymentsHandler); err != nil {
				log.Error("Payments consumer stopped: %v", err)
			}
		}()
	} else {
		close(consumerDone)
		log.Warn("RabbitMQ URL is empty: payment events are not consumed")
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	getExpertSchedule := getExpertScheduleHandler.NewHandler(expertSvc, log)
	updateExpertSchedule := updateExpertScheduleHandler.NewHandler(expertSvc, log)
	createSession := createSessionHandler.NewHandler(createSessionUseCase, log)
	getSession := getSessionHandler.NewHandler(sessionSvc, log)
	getSessionLedger := getSessionLedgerHandler.NewHandler(sessionSvc, log)
	listSessions := listSessionsHandler.NewHandler(sessionSvc, log)
	confirmSession := confirmSessionHandler.NewHandler(confirmSessionUseCase, log)
	completeSession := completeSessionHandler.NewHandler(completeSessionUseCase, log)
	cancelSession := cancelSessionHandler.NewHandler(cancelSessionUseCase, log)
	rateSession := rateSessionHandler.NewHandler(rateSessionUseCase, log)
	refundSession := refundSessionHandler.NewHandler(refundSessionUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/experts/{expertId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/experts/{expertId}/available-dates", getAvailableDates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/experts/{expertId}/schedule", getExpertSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание эксперта ---
	protected.HandleFunc("/experts/{expertId}/schedule", updateExpertSchedule.Handle).Methods(http.MethodPut)

	// --- Сессии ---
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}/ledger", getSessionLedger.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}/confirm", confirmSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/complete", completeSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/cancel", cancelSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/rate", rateSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/refund", refundSession.Handle).Methods(http.MethodPost)

	// История сессий пользователя
	protected.HandleFunc("/users/{userId}/sessions", listSessions.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Сначала перестаем принимать события платежей, затем дорабатываем очередь уведомлений
	stopConsumer()
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn("Payments consumer did not stop in time")
	}

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error("Notifier queue not drained: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
