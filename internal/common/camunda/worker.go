// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"random-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// WorkerOptions describes a job worker subscription.
type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	PollInterval  time.Duration
	// FetchVariables limits the variables activated with each job; empty fetches all.
	FetchVariables []string
}

// OpenWorker subscribes handler to opts.TaskType and returns the running worker.
func OpenWorker(client zbc.Client, opts WorkerOptions, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	step := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Name(WorkerName(opts.TaskType))

	if opts.PollInterval > 0 {
		step = step.PollInterval(opts.PollInterval)
	}
	if len(opts.FetchVariables) > 0 {
		step = step.FetchVariables(opts.FetchVariables...)
	}

	jobWorker := step.Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})

	return jobWorker
}

// WorkerName is the name reported to the gateway for a task type.
func WorkerName(taskType string) string {
	return fmt.Sprintf("%s-worker", taskType)
}
