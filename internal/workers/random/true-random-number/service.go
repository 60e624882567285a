package truerandomnumber

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"random-workers/internal/common/errors"
	httpclient "random-workers/internal/common/http"
	"random-workers/internal/common/logger"
	"random-workers/internal/common/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// ProviderName is written to every result's source field.
	ProviderName = "random.org"

	providerDisplayName = "Random.org"

	msgBoundsNotFinite = "Min and Max must be finite numbers."
	msgBoundsInverted  = "Min must be ≤ Max."
)

type Service struct {
	config *Config
	logger logger.Logger
	http   HTTPClient
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TaskType)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	client := deps.HTTPClient
	if client == nil {
		client = httpclient.NewClient(config.RequestTimeout)
	}

	return &Service{
		config: config,
		logger: log,
		http:   client,
		tracer: tracer,
		now:    now,
	}
}

// Execute draws one true random integer per item, in item order. With no items it
// still performs a single draw. The outer slice is the single output port.
// The first error aborts the run and nothing is returned for earlier items.
func (s *Service) Execute(ctx context.Context, items []InputItem, params ParameterResolver) ([][]RandomResult, error) {
	count := len(items)
	if count == 0 {
		count = 1
	}

	s.logger.Debug("Drawing random numbers", map[string]interface{}{
		"items":    len(items),
		"draws":    count,
		"provider": ProviderName,
	})

	results := make([]RandomResult, 0, count)
	for i := 0; i < count; i++ {
		bounds, err := s.resolveBounds(params, i)
		if err != nil {
			return nil, err
		}

		value, err := s.fetch(ctx, bounds, i)
		if err != nil {
			return nil, err
		}

		results = append(results, RandomResult{
			Random:      value,
			Min:         bounds.Min,
			Max:         bounds.Max,
			Source:      ProviderName,
			RequestedAt: FormatDate(s.now(), s.config.Locale),
		})
	}

	return [][]RandomResult{results}, nil
}

func (s *Service) resolveBounds(params ParameterResolver, index int) (RangeParameters, error) {
	bounds := RangeParameters{
		Min: toNumber(params.Resolve("min", index, s.config.DefaultMin)),
		Max: toNumber(params.Resolve("max", index, s.config.DefaultMax)),
	}
	if err := validateBounds(bounds, index); err != nil {
		return RangeParameters{}, err
	}
	return bounds, nil
}

func validateBounds(b RangeParameters, index int) error {
	if !isFinite(b.Min) || !isFinite(b.Max) {
		return errors.NewRangeValidationError(msgBoundsNotFinite, index)
	}
	if b.Min > b.Max {
		return errors.NewRangeValidationError(msgBoundsInverted, index)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, bounds RangeParameters, index int) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "random.org GET integers",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider", ProviderName),
			attribute.Int("iteration", index),
			attribute.Float64("range.min", bounds.Min),
			attribute.Float64("range.max", bounds.Max),
		),
	)
	defer span.End()

	start := time.Now()
	body, err := s.http.Request(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		URL:    s.config.ProviderURL,
		QS: map[string]interface{}{
			"num":    1,
			"min":    bounds.Min,
			"max":    bounds.Max,
			"col":    1,
			"base":   10,
			"format": "plain",
			"rnd":    "new",
		},
		Headers: map[string]string{
			"User-Agent": s.config.UserAgent,
		},
	})
	metrics.ProviderRequestDuration.WithLabelValues(ProviderName).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderRequests.WithLabelValues(ProviderName, "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider request failed")
		s.logger.Warn("Random provider request failed", map[string]interface{}{
			"iteration": index,
			"provider":  ProviderName,
			"error":     err,
		})
		return 0, err
	}

	text := bodyText(body)
	value, ok := parseLeadingInt(text)
	if !ok {
		metrics.ProviderRequests.WithLabelValues(ProviderName, "format_error").Inc()
		formatErr := errors.NewUpstreamFormatError(providerDisplayName, strings.TrimSpace(text))
		span.RecordError(formatErr)
		span.SetStatus(codes.Error, "unexpected provider reply")
		return 0, formatErr
	}

	metrics.ProviderRequests.WithLabelValues(ProviderName, "ok").Inc()
	span.SetAttributes(attribute.Int64("random.value", value))
	return value, nil
}

func bodyText(body interface{}) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	case []byte:
		return string(b)
	case *httpclient.Response:
		return bodyText(b.Body)
	default:
		return fmt.Sprint(b)
	}
}
