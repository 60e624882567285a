package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"random-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeGateway answers topology and complete requests. The first failures
// calls return Unavailable.
type fakeGateway struct {
	pb.GatewayClient

	brokers   int
	failures  int
	err       error
	topology  int
	completed int
}

func (g *fakeGateway) Topology(context.Context, *pb.TopologyRequest, ...grpc.CallOption) (*pb.TopologyResponse, error) {
	g.topology++
	if g.failures > 0 {
		g.failures--
		return nil, status.Error(codes.Unavailable, "connection refused")
	}
	if g.err != nil {
		return nil, g.err
	}
	resp := &pb.TopologyResponse{}
	for i := 0; i < g.brokers; i++ {
		resp.Brokers = append(resp.Brokers, &pb.BrokerInfo{NodeId: int32(i)})
	}
	return resp, nil
}

func (g *fakeGateway) CompleteJob(context.Context, *pb.CompleteJobRequest, ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.completed++
	if g.failures > 0 {
		g.failures--
		return nil, status.Error(codes.Unavailable, "connection refused")
	}
	return &pb.CompleteJobResponse{}, g.err
}

type fakeZeebe struct {
	zbc.Client
	gateway *fakeGateway
}

func (z fakeZeebe) NewTopologyCommand() *commands.TopologyCommand {
	return commands.NewTopologyCommand(z.gateway, noRetry)
}

func noRetry(context.Context, error) bool { return false }

func newFakeClient(gateway *fakeGateway) *Client {
	c := testClient()
	c.client = fakeZeebe{gateway: gateway}
	return c
}

func testClient() *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	c := testClient()
	calls := 0

	result, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return "ok", nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	c := testClient()
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("rpc error: code = NotFound desc = job not found")
	}, "complete job")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestExecuteWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	c := testClient()
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("context deadline exceeded")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTimeout))
	assert.Contains(t, err.Error(), "zeebe")
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	c := testClient()
	c.config.RetryConfig.BaseDelay = time.Second
	c.config.RetryConfig.MaxDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, stderrors.New("connection reset by peer")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapZeebeError(t *testing.T) {
	c := testClient()

	tests := []struct {
		msg  string
		code errors.ErrorCode
	}{
		{"deadline exceeded", errors.ErrCodeTimeout},
		{"process not found", errors.ErrCodeNotFound},
		{"rpc error: code = Unauthenticated", errors.ErrCodeAuthentication},
		{"connection refused", errors.ErrCodeExternalService},
		{"something odd", errors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := c.mapZeebeError(stderrors.New(tt.msg), "op", 0)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestHealthCheck_NotInitialized(t *testing.T) {
	var c *Client
	assert.Error(t, c.HealthCheck(context.Background()))
	assert.Error(t, testClient().HealthCheck(context.Background()))
}

func TestHealthCheck_Topology(t *testing.T) {
	t.Run("brokers known", func(t *testing.T) {
		gateway := &fakeGateway{brokers: 3}
		assert.NoError(t, newFakeClient(gateway).HealthCheck(context.Background()))
		assert.Equal(t, 1, gateway.topology)
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		gateway := &fakeGateway{brokers: 1, failures: 2}
		assert.NoError(t, newFakeClient(gateway).HealthCheck(context.Background()))
		assert.Equal(t, 3, gateway.topology)
	})

	t.Run("no brokers", func(t *testing.T) {
		err := newFakeClient(&fakeGateway{}).HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no brokers")
	})

	t.Run("permanent failure", func(t *testing.T) {
		gateway := &fakeGateway{err: status.Error(codes.PermissionDenied, "permission denied")}
		err := newFakeClient(gateway).HealthCheck(context.Background())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeAuthentication))
		assert.Equal(t, 1, gateway.topology)
	})
}

func TestCompleteJob_RetriesTransientErrors(t *testing.T) {
	gateway := &fakeGateway{failures: 1}
	c := newFakeClient(gateway)

	command, err := commands.NewCompleteJobCommand(gateway, noRetry).JobKey(42).VariablesFromMap(map[string]interface{}{"random": 7})
	require.NoError(t, err)

	require.NoError(t, c.CompleteJob(context.Background(), command))
	assert.Equal(t, 2, gateway.completed)
}

func TestNewClientFromZeebe_Defaults(t *testing.T) {
	c := NewClientFromZeebe(nil, nil)
	assert.Same(t, DefaultRetryConfig, c.config.RetryConfig)
	assert.Equal(t, 10*time.Second, c.config.ConnectionTimeout)
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestWorkerName(t *testing.T) {
	assert.Equal(t, "true-random-number-worker", WorkerName("true-random-number"))
}
