package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelVisitHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/cancel_visit"
	clearUnavailableHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/clear_unavailable"
	createSlotsHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/create_slots"
	createVisitHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/create_visit"
	deleteSlotHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/delete_slot"
	getAssignedVisitsHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/get_assigned_visits"
	getAvailabilityHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/get_availability"
	getMyVisitsHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/get_my_visits"
	getVisitHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/get_visit"
	markUnavailableHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/mark_unavailable"
	recipientRescheduleHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/recipient_reschedule"
	rescheduleVisitHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/reschedule_visit"
	updateAttendanceHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/update_attendance"
	updateVisitStatusHandler "github.com/estatehub/EstateHub-VisitService/internal/api/handlers/update_visit_status"
	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/config"
	blackoutRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/blackout"
	slotRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/slot"
	visitRepo "github.com/estatehub/EstateHub-VisitService/internal/infra/storage/visit"
	"github.com/estatehub/EstateHub-VisitService/internal/integrations/notifier"
	propertyServiceClient "github.com/estatehub/EstateHub-VisitService/internal/integrations/propertyservice"
	slotsService "github.com/estatehub/EstateHub-VisitService/internal/service/slots"
	visitsService "github.com/estatehub/EstateHub-VisitService/internal/service/visits"
	createVisitUC "github.com/estatehub/EstateHub-VisitService/internal/usecase/create_visit"
	getAvailabilityUC "github.com/estatehub/EstateHub-VisitService/internal/usecase/get_availability"
	"github.com/estatehub/EstateHub-VisitService/internal/worker/sweeper"
	"github.com/estatehub/EstateHub-VisitService/pkg/dbmetrics"
	"github.com/estatehub/EstateHub-VisitService/pkg/logger"
	"github.com/estatehub/EstateHub-VisitService/pkg/metrics"
	"github.com/estatehub/EstateHub-VisitService/pkg/simpletxmanager"
	"github.com/estatehub/EstateHub-VisitService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting EstateHub-VisitService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента PropertyService
	propertyClient := propertyServiceClient.NewClient(
		cfg.PropertyService.URL,
		time.Duration(cfg.PropertyService.Timeout)*time.Second,
		log,
	)
	log.Info("PropertyService client initialized (url=%s, timeout=%ds)",
		cfg.PropertyService.URL, cfg.PropertyService.Timeout)

	// Инициализируем диспетчер уведомлений (RabbitMQ или заглушка)
	type Notifier interface {
		Notify(ctx context.Context, eventType string, recipientID int64, payload map[string]interface{}) error
	}
	var notify Notifier

	if cfg.Notifier.Enabled {
		publisher, err := notifier.NewPublisher(
			cfg.Notifier.AMQPURL,
			cfg.Notifier.Exchange,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		notify = publisher
		log.Info("Notifier connected (exchange=%s)", cfg.Notifier.Exchange)
	} else {
		notify = notifier.Noop{}
		log.Info("Notifier disabled, events will be dropped")
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		slotRepository     *slotRepo.Repository
		blackoutRepository *blackoutRepo.Repository
		visitRepository    *visitRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		blackoutRepository = blackoutRepo.NewRepository(wrappedDB)
		visitRepository = visitRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		blackoutRepository = blackoutRepo.NewRepository(db)
		visitRepository = visitRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotsSvc := slotsService.NewService(
		slotRepository,
		blackoutRepository,
		propertyClient,
		txMgr,
		log,
	)
	visitsSvc := visitsService.NewService(
		visitRepository,
		notify,
		log,
	)

	// Инициализируем use cases
	createVisitUseCase := createVisitUC.NewUseCase(
		slotRepository,
		visitRepository,
		blackoutRepository,
		propertyClient,
		notify,
		txMgr,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		slotRepository,
		blackoutRepository,
		propertyClient,
		log,
	)

	// Инициализируем handlers
	createSlots := createSlotsHandler.NewHandler(slotsSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotsSvc, log)
	markUnavailable := markUnavailableHandler.NewHandler(slotsSvc, log)
	clearUnavailable := clearUnavailableHandler.NewHandler(slotsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createVisit := createVisitHandler.NewHandler(createVisitUseCase, log)
	getVisit := getVisitHandler.NewHandler(visitsSvc, log)
	updateVisitStatus := updateVisitStatusHandler.NewHandler(visitsSvc, log)
	updateAttendance := updateAttendanceHandler.NewHandler(visitsSvc, log)
	rescheduleVisit := rescheduleVisitHandler.NewHandler(visitsSvc, log)
	recipientReschedule := recipientRescheduleHandler.NewHandler(visitsSvc, log)
	cancelVisit := cancelVisitHandler.NewHandler(visitsSvc, log)
	getMyVisits := getMyVisitsHandler.NewHandler(visitsSvc, log)
	getAssignedVisits := getAssignedVisitsHandler.NewHandler(visitsSvc, log)

	// Запускаем воркер истечения слотов
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.Sweeper.Enabled {
		sw := sweeper.New(
			slotRepository,
			time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute,
			cfg.Sweeper.HardDeleteAfterDays,
			metricsCollector,
			log,
		)
		go sw.Start(sweepCtx)
		log.Info("Sweeper started (interval=%dm, hard_delete_after_days=%d)",
			cfg.Sweeper.IntervalMinutes, cfg.Sweeper.HardDeleteAfterDays)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь доступности объекта
	api.HandleFunc("/availability/{propertyId}", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание (для агентов и администраторов) ---
	protected.HandleFunc("/slots", createSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/unavailable", markUnavailable.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/unavailable", clearUnavailable.Handle).Methods(http.MethodDelete)

	// --- Заявки на визит ---
	protected.HandleFunc("/visits", createVisit.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/visits/my", getMyVisits.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/visits/assigned", getAssignedVisits.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/visits/{visitId}", getVisit.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/visits/{visitId}", cancelVisit.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/visits/{visitId}/status", updateVisitStatus.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/visits/{visitId}/visit-status", updateAttendance.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/visits/{visitId}/reschedule", rescheduleVisit.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/visits/{visitId}/recipient-reschedule", recipientReschedule.Handle).Methods(http.MethodPut)

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

	// Останавливаем воркер и сбор метрик connection pool
	stopSweeper()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
