package errors

import (
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"range", NewRangeValidationError("Min must be ≤ Max.", 0), "RANGE_VALIDATION_FAILED", 0},
		{"format", NewUpstreamFormatError("Random.org", "oops"), "UPSTREAM_FORMAT_ERROR", 0},
		{"transport", NewTransportError("random.org", fmt.Errorf("connection refused")), "RANDOM_PROVIDER_UNAVAILABLE", 3},
		{"timeout", NewTransportTimeoutError("random.org", fmt.Errorf("deadline")), "RANDOM_PROVIDER_TIMEOUT", 2},
		{"unmapped code", NewAuthenticationError("bad token"), "AUTHENTICATION_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, tt.err.Message, bpmn.Message)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestUpstreamFormatMessage(t *testing.T) {
	err := NewUpstreamFormatError("Random.org", "Error: quota")
	assert.Equal(t, `Unexpected response from Random.org: "Error: quota"`, err.Message)
}

func TestRangeValidationKeepsIteration(t *testing.T) {
	err := NewRangeValidationError("Min and Max must be finite numbers.", 4)
	assert.Equal(t, 4, err.Metadata["iteration"])
	assert.False(t, err.Retryable)
}

func TestHasCodeThroughWrapping(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	wrapped := fmt.Errorf("draw 2: %w", NewTransportError("random.org", cause))

	assert.True(t, HasCode(wrapped, ErrCodeTransport))
	assert.False(t, HasCode(wrapped, ErrCodeTransportTimeout))
	assert.False(t, HasCode(cause, ErrCodeTransport))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.ErrorIs(t, stdErr, cause)
}

func TestNormalize(t *testing.T) {
	std := NewInputValidationFailedError("items: bad")
	assert.Same(t, std, Normalize(std))

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}

	assert.Equal(t, int32(2), RemainingRetries(job(3), 3))
	assert.Equal(t, int32(1), RemainingRetries(job(5), 1))
	assert.Equal(t, int32(0), RemainingRetries(job(1), 3))
	assert.Equal(t, int32(0), RemainingRetries(job(0), 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParsingFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeRangeValidationFailed))
	assert.Equal(t, "PROVIDER", GetErrorCategory(ErrCodeUpstreamFormat))
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeTransport))
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeTransportTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeTransport))
	assert.True(t, IsRetryableErrorCode(ErrCodeTransportTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeUpstreamFormat))
	assert.False(t, IsRetryableErrorCode(ErrCodeRangeValidationFailed))
}
