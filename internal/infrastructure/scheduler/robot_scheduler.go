package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/erp/invoicerobot/internal/application/invoicing"
	"go.uber.org/zap"
)

// checkInterval is how often the scheduler checks whether it is time to run
const checkInterval = time.Minute

// runLockKey identifies the robot run lock shared by all instances
const runLockKey = "invoice_robot:run"

// RobotRunner executes one batch run of the invoice robot
type RobotRunner interface {
	Run(ctx context.Context) (*invoicing.RunResult, error)
}

// RobotSchedulerConfig holds configuration for the robot scheduler
type RobotSchedulerConfig struct {
	// Enabled indicates if the scheduler is active
	Enabled bool

	// CronSchedule is a cron expression "minute hour * * *" for the daily run
	CronSchedule string

	// RunTimeout is the maximum time a single robot run can take
	RunTimeout time.Duration

	// LockTTL is the expiry on the distributed run lock
	LockTTL time.Duration
}

// DefaultRobotSchedulerConfig returns default configuration (3 AM daily)
func DefaultRobotSchedulerConfig() RobotSchedulerConfig {
	return RobotSchedulerConfig{
		Enabled:      true,
		CronSchedule: "0 3 * * *",
		RunTimeout:   30 * time.Minute,
		LockTTL:      time.Hour,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute
// Returns defaults (3:00) if the expression is empty or incomplete
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 3
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 3); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 3, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 3, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// RobotScheduler triggers the invoice robot at the configured time once per day.
// A distributed run lock keeps concurrent instances from double-billing.
type RobotScheduler struct {
	config RobotSchedulerConfig
	runner RobotRunner
	lock   RunLock
	logger *zap.Logger

	runHour   int
	runMinute int

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewRobotScheduler creates a new robot scheduler
func NewRobotScheduler(
	config RobotSchedulerConfig,
	runner RobotRunner,
	lock RunLock,
	logger *zap.Logger,
) (*RobotScheduler, error) {
	hour, minute, err := ParseCronSchedule(config.CronSchedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 30 * time.Minute
	}
	if config.LockTTL <= config.RunTimeout {
		return nil, fmt.Errorf("%w: lock TTL must exceed run timeout", ErrInvalidConfig)
	}

	return &RobotScheduler{
		config:    config,
		runner:    runner,
		lock:      lock,
		logger:    logger,
		runHour:   hour,
		runMinute: minute,
	}, nil
}

// Start starts the scheduler loop
func (s *RobotScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Invoice robot scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Invoice robot scheduler started",
		zap.Int("run_hour", s.runHour),
		zap.Int("run_minute", s.runMinute),
		zap.Duration("run_timeout", s.config.RunTimeout),
		zap.Duration("lock_ttl", s.config.LockTTL),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *RobotScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Invoice robot scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Invoice robot scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler loop is active
func (s *RobotScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// runLoop checks periodically if it is time to run the robot
func (s *RobotScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Robot scheduler loop stopping")
			return
		case <-ticker.C:
			s.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the robot if the configured time has arrived today
func (s *RobotScheduler) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != s.runHour || now.Minute() != s.runMinute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.executeRun(ctx)
}

// TriggerImmediateRun executes a robot run right away, outside the daily schedule
func (s *RobotScheduler) TriggerImmediateRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	s.logger.Info("Triggering immediate invoice robot run")
	return s.executeRun(ctx)
}

// executeRun takes the run lock and executes one robot batch
func (s *RobotScheduler) executeRun(ctx context.Context) error {
	acquired, err := s.lock.Acquire(ctx, runLockKey, s.config.LockTTL)
	if err != nil {
		s.logger.Error("Failed to acquire invoice robot run lock", zap.Error(err))
		return err
	}
	if !acquired {
		s.logger.Warn("Invoice robot run skipped, another instance holds the lock")
		return ErrRunAlreadyInProgress
	}
	defer func() {
		if err := s.lock.Release(ctx, runLockKey); err != nil {
			s.logger.Warn("Failed to release invoice robot run lock", zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	s.logger.Info("Starting invoice robot run", zap.Time("started_at", time.Now()))

	startTime := time.Now()
	result, err := s.runner.Run(runCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Invoice robot run failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Invoice robot run completed",
		zap.Duration("duration", duration),
		zap.Int("companies_processed", result.CompaniesProcessed),
		zap.Int("invoices_created", result.InvoicesCreated),
		zap.Int("deliveries_skipped", result.DeliveriesSkipped),
		zap.Int("recovery_failures", result.RecoveryFailures),
		zap.Int("finalize_failures", result.FinalizeFailures),
	)

	return nil
}
