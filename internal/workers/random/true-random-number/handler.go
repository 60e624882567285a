package truerandomnumber

import (
	"context"
	"fmt"
	"time"

	"random-workers/internal/common/camunda"
	"random-workers/internal/common/config"
	"random-workers/internal/common/errors"
	"random-workers/internal/common/logger"
	"random-workers/internal/common/metrics"
	"random-workers/internal/common/observability"
	"random-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "true-random-number"

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      *Service
	errorHandler *errors.ErrorHandler
	journal      Journal
	obs          *observability.Observability
	now          func() time.Time
	jobWorker    worker.JobWorker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Logger       logger.Logger

	// Optional collaborators.
	HTTPClient    HTTPClient
	Journal       Journal
	Observability *observability.Observability
	Now           func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.With(map[string]interface{}{"worker": TaskType})

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	obs := opts.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}

	handler := &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		errorHandler: errors.NewErrorHandler(loggerInstance).WithRetryCap(workerConfig.MaxRetries),
		journal:      opts.Journal,
		obs:          obs,
		now:          now,
	}

	handler.service = NewService(ServiceDependencies{
		Logger:     loggerInstance,
		HTTPClient: opts.HTTPClient,
		Tracer:     obs.Tracer(),
		Now:        now,
	}, handler.config)

	return handler, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, "job "+TaskType)
	defer span.End()

	h.logger.Info("Processing random number request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"retries":            job.GetRetries(),
	})

	output, err := h.process(ctx, job)
	if err != nil {
		errorCode := extractErrorCode(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.obs.RecordJobProcessed(ctx, "failed")
		span.RecordError(err)
		h.failJob(ctx, client, job, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.obs.RecordJobProcessed(ctx, "complete_failed")
		return
	}
	h.recordJournal(ctx, job, output)

	drawn := len(output.Results[0])
	metrics.RandomValuesDrawn.WithLabelValues(TaskType).Add(float64(drawn))
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordDraws(ctx, ProviderName, drawn)
	h.obs.RecordJobProcessed(ctx, "completed")
	h.obs.RecordJobDuration(ctx, time.Since(startTime), "completed")
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}

	results, err := h.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	return buildOutput(results, h.now()), nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	validationResult := validation.ValidateInput(variables, GetInputSchema())
	if !validationResult.Valid {
		return nil, errors.NewInputValidationFailedError(
			fmt.Sprintf("Validation errors: %v", validationResult.GetErrorMessages()),
		)
	}

	input := &Input{Variables: variables}

	if rawItems, ok := variables["items"].([]interface{}); ok {
		input.Items = make([]InputItem, 0, len(rawItems))
		for _, raw := range rawItems {
			if item, ok := raw.(map[string]interface{}); ok {
				input.Items = append(input.Items, InputItem(item))
			}
		}
	}

	return input, nil
}

func buildOutput(results [][]RandomResult, at time.Time) *Output {
	output := &Output{
		Results:     results,
		Source:      ProviderName,
		CompletedAt: at,
	}
	if len(results) > 0 && len(results[0]) > 0 {
		output.Random = results[0][0].Random
	}
	return output
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	variables := map[string]interface{}{
		"randomResults": output.Results,
		"random":        output.Random,
		"source":        output.Source,
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	if h.camunda != nil {
		err = h.camunda.CompleteJob(ctx, request)
	} else {
		_, err = request.Send(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	h.logger.Info("Successfully completed random number request", map[string]interface{}{
		"jobKey": job.GetKey(),
		"random": output.Random,
		"draws":  len(output.Results[0]),
	})
	return nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// recordJournal appends the run to the draw journal. Failures never affect the job.
func (h *Handler) recordJournal(ctx context.Context, job entities.Job, output *Output) {
	if h.journal == nil {
		return
	}

	entry := JournalEntry{
		JobKey:             job.GetKey(),
		ProcessInstanceKey: job.GetProcessInstanceKey(),
		Results:            output.Results[0],
		RecordedAt:         output.CompletedAt.UTC(),
	}

	if err := h.journal.Record(ctx, entry); err != nil {
		metrics.DrawJournalWrites.WithLabelValues("error").Inc()
		h.logger.Warn("Failed to record draw journal entry", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	metrics.DrawJournalWrites.WithLabelValues("ok").Inc()
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{})
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("camunda client is required to register %s", TaskType)
	}

	h.jobWorker = camunda.OpenWorker(h.camunda.GetClient(), camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}, h.Handle, h.logger)

	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.logger.Info("Shutting down worker gracefully", map[string]interface{}{})
		h.jobWorker.Close()
		h.jobWorker.AwaitClose()
		h.jobWorker = nil
	}
}

// HealthCheck checks the gateway and, when a journal is configured, its backing store.
// The provider is left out since every request consumes quota.
func (h *Handler) HealthCheck(ctx context.Context) error {
	if err := h.camunda.HealthCheck(ctx); err != nil {
		return fmt.Errorf("camunda health check failed: %w", err)
	}

	if pinger, ok := h.journal.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("draw journal health check failed: %w", err)
		}
	}

	return nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

// Execute runs the draw for an already parsed input.
func (h *Handler) Execute(ctx context.Context, input *Input) ([][]RandomResult, error) {
	return h.service.Execute(ctx, input.Items, NewJobParameterResolver(input.Items, input.Variables))
}

func extractErrorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		workerCfg := config.GetWorkerConfig(appConfig, TaskType)
		cfg.Enabled = config.IsWorkerEnabled(appConfig, TaskType)
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
		if workerCfg.MaxRetries > 0 {
			cfg.MaxRetries = workerCfg.MaxRetries
		}

		if ro := appConfig.APIs.RandomOrg; ro.BaseURL != "" {
			cfg.ProviderURL = ro.BaseURL
		}
		if ua := appConfig.APIs.RandomOrg.UserAgent; ua != "" {
			cfg.UserAgent = ua
		}
		if t := appConfig.APIs.RandomOrg.Timeout; t > 0 {
			cfg.RequestTimeout = config.GetDuration(t)
		}

		if appConfig.Random.Locale != "" {
			cfg.Locale = appConfig.Random.Locale
		}
		// The loader fills each bound on its own, so both are taken as given.
		cfg.DefaultMin = appConfig.Random.DefaultMin
		cfg.DefaultMax = appConfig.Random.DefaultMax
	}

	return cfg
}
