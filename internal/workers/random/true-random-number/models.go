package truerandomnumber

import (
	"context"
	"time"

	httpclient "random-workers/internal/common/http"
	"random-workers/internal/common/logger"

	"go.opentelemetry.io/otel/trace"
)

// InputItem is one incoming record. Its fields only matter to parameter resolution.
type InputItem map[string]interface{}

// RangeParameters are the bounds resolved for one iteration.
type RangeParameters struct {
	Min float64
	Max float64
}

// RandomResult is emitted once per iteration.
type RandomResult struct {
	Random      int64   `json:"random"`
	Min         float64 `json:"Min"`
	Max         float64 `json:"Max"`
	Source      string  `json:"source"`
	RequestedAt string  `json:"requestedAt"`
}

// ParameterResolver returns the raw value of a named parameter for item index,
// or fallback when nothing is set.
type ParameterResolver interface {
	Resolve(name string, index int, fallback interface{}) interface{}
}

type HTTPClient interface {
	Request(ctx context.Context, opts httpclient.RequestOptions) (interface{}, error)
}

type Input struct {
	Items     []InputItem
	Variables map[string]interface{}
}

type Output struct {
	Results     [][]RandomResult `json:"randomResults"`
	Random      int64            `json:"random"`
	Source      string           `json:"source"`
	CompletedAt time.Time        `json:"-"`
}

type ServiceDependencies struct {
	Logger     logger.Logger
	HTTPClient HTTPClient
	Tracer     trace.Tracer
	// Now defaults to time.Now.
	Now func() time.Time
}
