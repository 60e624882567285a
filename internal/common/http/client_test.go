package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "random-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	got, err := BuildURL("https://www.random.org/integers/", map[string]interface{}{
		"num":    1,
		"min":    0.0,
		"max":    2.5,
		"format": "plain",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://www.random.org/integers/?format=plain&max=2.5&min=0&num=1", got)

	got, err = BuildURL("http://h/p?keep=1", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://h/p?keep=1", got)

	_, err = BuildURL("http://h/p", map[string]interface{}{"bad": struct{}{}})
	assert.Error(t, err)
}

func TestClient_Request_RawText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "7", r.URL.Query().Get("max"))
		w.Write([]byte("5\n"))
	}))
	defer server.Close()

	c := NewClient(time.Second)
	body, err := c.Request(context.Background(), RequestOptions{
		URL:     server.URL,
		QS:      map[string]interface{}{"max": 7},
		Headers: map[string]string{"User-Agent": "agent"},
	})
	require.NoError(t, err)
	assert.Equal(t, "5\n", body)
}

func TestClient_Request_JSONAndFullResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("X-Quota", "1000")
		w.Write([]byte(`{"value": 3}`))
	}))
	defer server.Close()

	c := NewClient(time.Second)
	res, err := c.Request(context.Background(), RequestOptions{
		Method:             http.MethodGet,
		URL:                server.URL,
		JSON:               true,
		ReturnFullResponse: true,
	})
	require.NoError(t, err)

	full, ok := res.(*Response)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, full.StatusCode)
	assert.Equal(t, "1000", full.Headers.Get("X-Quota"))
	assert.Equal(t, map[string]interface{}{"value": 3.0}, full.Body)
}

func TestClient_Request_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Error: quota exceeded"))
	}))
	defer server.Close()

	_, err := NewClient(time.Second).Request(context.Background(), RequestOptions{URL: server.URL})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTransport))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "quota exceeded")
}

func TestClient_Request_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(5*time.Second).Request(ctx, RequestOptions{URL: server.URL})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTransportTimeout), "got %v", err)
}

func TestClient_Request_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(time.Second).Request(context.Background(), RequestOptions{URL: url})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTransport))
}

func TestClient_Request_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(time.Second).Request(context.Background(), RequestOptions{URL: server.URL, JSON: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestClient_Request_CapsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("42" + strings.Repeat("x", 4096)))
	}))
	defer server.Close()

	body, err := NewClient(time.Second).WithMaxBodyBytes(16).Request(context.Background(), RequestOptions{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "42"+strings.Repeat("x", 14), body)
}

func TestClient_Request_CapsStatusErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("e", 10000)))
	}))
	defer server.Close()

	_, err := NewClient(time.Second).Request(context.Background(), RequestOptions{URL: server.URL})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Len(t, statusErr.Body, 512)
}
