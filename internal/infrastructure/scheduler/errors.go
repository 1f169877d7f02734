package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a run on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrRunAlreadyInProgress is returned when another instance holds the run lock
	ErrRunAlreadyInProgress = errors.New("invoice robot run already in progress")

	// ErrInvalidConfig is returned when scheduler configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
