package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/invoicerobot/internal/application/invoicing"
	"github.com/erp/invoicerobot/internal/infrastructure/config"
	"github.com/erp/invoicerobot/internal/infrastructure/logger"
	"github.com/erp/invoicerobot/internal/infrastructure/persistence"
	"github.com/erp/invoicerobot/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	runOnce := flag.Bool("once", false, "Run the invoice robot once and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice robot",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Bool("once", *runOnce),
	)

	robotUserID := uuid.Nil
	if cfg.Robot.UserID != "" {
		robotUserID, err = uuid.Parse(cfg.Robot.UserID)
		if err != nil {
			log.Fatal("Invalid robot user id", zap.String("user_id", cfg.Robot.UserID), zap.Error(err))
		}
	} else {
		log.Warn("No robot user id configured, generated invoices will carry a nil user")
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	paramRepo := persistence.NewGormParameterRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormSaleOrderRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	positionRepo := persistence.NewGormFiscalPositionRepository(db.DB)
	messagePoster := persistence.NewGormMessagePoster(db.DB)
	txManager := persistence.NewTxManager(db.DB)

	// Wire the invoicing pipeline
	calculator := invoicing.NewOutstandingCalculator(orderRepo, productRepo)
	materializer := invoicing.NewInvoiceMaterializer(
		invoiceRepo,
		orderRepo,
		productRepo,
		customerRepo,
		journalRepo,
		positionRepo,
		log,
	)
	finalizer := invoicing.NewSequenceFinalizer(invoiceRepo, journalRepo, log)
	robotService := invoicing.NewRobotService(
		paramRepo,
		companyRepo,
		customerRepo,
		deliveryRepo,
		invoiceRepo,
		messagePoster,
		calculator,
		materializer,
		finalizer,
		txManager,
		robotUserID,
		log,
	)

	// Distributed run lock keeps concurrent instances from double-billing.
	// Redis is optional for single-instance deployments.
	var runLock scheduler.RunLock
	if cfg.Redis.Host != "" {
		redisLock, err := scheduler.NewRedisRunLock(scheduler.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		runLock = redisLock
		log.Info("Using Redis run lock", zap.String("addr", cfg.Redis.Addr()))
	} else {
		runLock = scheduler.NewInMemoryRunLock()
		log.Info("Using in-memory run lock")
	}

	robotScheduler, err := scheduler.NewRobotScheduler(
		scheduler.RobotSchedulerConfig{
			Enabled:      cfg.Robot.Enabled || *runOnce,
			CronSchedule: cfg.Robot.CronSchedule,
			RunTimeout:   cfg.Robot.RunTimeout,
			LockTTL:      cfg.Robot.LockTTL,
		},
		robotService,
		runLock,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create robot scheduler", zap.Error(err))
	}

	ctx := context.Background()
	if err := robotScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start robot scheduler", zap.Error(err))
	}

	if *runOnce {
		err := robotScheduler.TriggerImmediateRun(ctx)
		stopScheduler(ctx, robotScheduler, log)
		if err != nil {
			log.Fatal("Invoice robot run failed", zap.Error(err))
		}
		return
	}

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down invoice robot")
	stopScheduler(ctx, robotScheduler, log)
}

func stopScheduler(ctx context.Context, s *scheduler.RobotScheduler, log *zap.Logger) {
	stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		log.Error("Scheduler shutdown error", zap.Error(err))
	}
}
