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
	goredis "github.com/redis/go-redis/v9"

	createAssignmentHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/create_assignment"
	createNoteHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/create_note"
	deleteAssignmentHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/delete_assignment"
	deleteNoteHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/delete_note"
	exportRecapHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/export_recap"
	getRecapHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/get_recap"
	listNotesHandler "github.com/m04kA/SMC-TourRecapService/internal/api/handlers/list_notes"
	"github.com/m04kA/SMC-TourRecapService/internal/api/middleware"
	"github.com/m04kA/SMC-TourRecapService/internal/config"
	"github.com/m04kA/SMC-TourRecapService/internal/infra/cache"
	assignmentRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/assignment"
	availabilityRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/booking"
	guideCostRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/guidecost"
	"github.com/m04kA/SMC-TourRecapService/internal/infra/storage/migrations"
	noteRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/note"
	ratesRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/rates"
	voucherRepo "github.com/m04kA/SMC-TourRecapService/internal/infra/storage/voucher"
	"github.com/m04kA/SMC-TourRecapService/internal/integrations/plannedavailability"
	assignmentsService "github.com/m04kA/SMC-TourRecapService/internal/service/assignments"
	notesService "github.com/m04kA/SMC-TourRecapService/internal/service/notes"
	exportRecapUC "github.com/m04kA/SMC-TourRecapService/internal/usecase/export_recap"
	getRecapUC "github.com/m04kA/SMC-TourRecapService/internal/usecase/get_recap"
	"github.com/m04kA/SMC-TourRecapService/internal/worker/refresher"
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/logger"
	"github.com/m04kA/SMC-TourRecapService/pkg/metrics"
	"github.com/m04kA/SMC-TourRecapService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-TourRecapService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены). Методы *metrics.Metrics безопасны для nil
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Миграции
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	assignmentRepository := assignmentRepo.NewRepository(wrappedDB)
	ratesRepository := ratesRepo.NewRepository(wrappedDB)
	guideCostRepository := guideCostRepo.NewRepository(wrappedDB)
	voucherRepository := voucherRepo.NewRepository(wrappedDB)
	noteRepository := noteRepo.NewRepository(wrappedDB)

	// Клиент сервиса планирования (опционален)
	var plannedClient getRecapUC.PlannedAvailabilityClient
	if cfg.PlannedAvailability.URL != "" {
		plannedClient = plannedavailability.NewClient(
			cfg.PlannedAvailability.URL,
			time.Duration(cfg.PlannedAvailability.Timeout)*time.Second,
			cfg.PlannedAvailability.Statuses,
			log,
		)
		log.Info("Planned availability client initialized (url=%s, timeout=%ds)",
			cfg.PlannedAvailability.URL, cfg.PlannedAvailability.Timeout)
	} else {
		log.Warn("Planned availability URL is not set, planned slots are disabled")
	}

	// Redis: кэш отчетов и канал уведомлений (опционально)
	var (
		recapCache       *cache.RecapCache
		cacheForRecap    getRecapUC.RecapCache
		changeNotifier   assignmentsService.ChangePublisher
		recapInvalidator assignmentsService.RecapInvalidator
	)
	if cfg.Redis.Enabled {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		recapCache = cache.NewRecapCache(rdb, time.Duration(cfg.Recap.CacheTTL)*time.Second, cfg.Redis.ChangeChannel)
		changeNotifier = recapCache
		if cfg.Recap.CacheTTL > 0 {
			cacheForRecap = recapCache
			recapInvalidator = recapCache
		}
		log.Info("Redis connected (addr=%s, cache_ttl=%ds, channel=%s)", cfg.Redis.Addr, cfg.Recap.CacheTTL, cfg.Redis.ChangeChannel)
	}

	// Инициализируем use cases
	getRecapUseCase := getRecapUC.NewUseCase(
		getRecapUC.Dependencies{
			Bookings:      bookingRepository,
			Availability:  availabilityRepository,
			Assignments:   assignmentRepository,
			Rates:         ratesRepository,
			GuideCosts:    guideCostRepository,
			Vouchers:      voucherRepository,
			PlannedClient: plannedClient,
			Cache:         cacheForRecap,
			Metrics:       metricsCollector,
		},
		getRecapUC.Options{
			MaxRangeDays:     cfg.Recap.MaxRangeDays,
			FetchConcurrency: cfg.Recap.FetchConcurrency,
			Policy:           cfg.PricingPolicy.Policy(),
		},
		log,
	)
	exportRecapUseCase := exportRecapUC.NewUseCase(getRecapUseCase, log)

	// Инициализируем сервисы
	assignmentSvc := assignmentsService.NewService(
		assignmentRepository,
		ratesRepository,
		availabilityRepository,
		txMgr,
		changeNotifier,
		recapInvalidator,
		log,
	)
	noteSvc := notesService.NewService(noteRepository, cfg.Recap.MaxRangeDays, log)

	// Фоновое обновление кэша
	var refreshWorker *refresher.Worker
	if cfg.Refresh.Enabled && recapCache != nil {
		refreshWorker = refresher.NewWorker(
			getRecapUseCase,
			recapCache,
			recapCache,
			metricsCollector,
			refresher.Options{
				Schedule:      cfg.Refresh.Schedule,
				Debounce:      cfg.Refresh.Debounce(),
				RatePerMinute: cfg.Refresh.RatePerMinute,
				Retention:     cfg.Refresh.Retention(),
			},
			log,
		)
		if err := refreshWorker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start refresh worker: %v", err)
		}
	}

	// Инициализируем handlers
	getRecap := getRecapHandler.NewHandler(getRecapUseCase, log)
	exportRecap := exportRecapHandler.NewHandler(exportRecapUseCase, log)
	createAssignment := createAssignmentHandler.NewHandler(assignmentSvc, log)
	deleteAssignment := deleteAssignmentHandler.NewHandler(assignmentSvc, log)
	listNotes := listNotesHandler.NewHandler(noteSvc, log)
	createNote := createNoteHandler.NewHandler(noteSvc, log)
	deleteNote := deleteNoteHandler.NewHandler(noteSvc, log)

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
	// READ ROUTES
	// ============================================================

	// Отчет по туру за период
	api.HandleFunc("/tours/{tourId}/recap", getRecap.Handle).Methods(http.MethodGet)

	// Выгрузка отчета в xlsx
	api.HandleFunc("/tours/{tourId}/recap/export", exportRecap.Handle).Methods(http.MethodGet)

	// Заметки тура со счетчиками
	api.HandleFunc("/tours/{tourId}/notes", listNotes.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Назначения ---
	protected.HandleFunc("/assignments/{kind}", createAssignment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/assignments/{kind}/{assignmentId}", deleteAssignment.Handle).Methods(http.MethodDelete)

	// --- Заметки ---
	protected.HandleFunc("/notes", createNote.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/notes/{noteId}", deleteNote.Handle).Methods(http.MethodDelete)

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

	if refreshWorker != nil {
		if err := refreshWorker.Stop(shutdownCtx); err != nil {
			log.Error("Refresh worker did not stop in time: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
