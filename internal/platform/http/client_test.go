package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer fires immediately and records every requested delay
type fakeTimer struct {
	delays []time.Duration
	c      chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{c: make(chan time.Time, 16)}
}

func (t *fakeTimer) Start(d time.Duration) {
	t.delays = append(t.delays, d)
	t.c <- time.Time{}
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func newTestClient(doer Doer, timer backoff.Timer) *Client {
	logger := zerolog.Nop()
	return NewClient(ClientOptions{
		RequestsPerSec: 1000,
		Doer:           doer,
		Timer:          timer,
		Logger:         &logger,
	})
}

func getRequest(url string) RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func readBody(dst *string) ResponseHandler {
	return func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		*dst = string(b)
		return err
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientOptions{})

	assert.Equal(t, DefaultMaxAttempts, c.MaxAttempts)
	assert.Equal(t, DefaultRetryDelay, c.RetryDelay)
	hc, ok := c.HTTPClient.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, DefaultTimeout, hc.Timeout)
}

func TestDoRequest_AllAttemptsFail(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	timer := newFakeTimer()
	c := newTestClient(srv.Client(), timer)

	var body string
	err := c.DoRequest(context.Background(), getRequest(srv.URL), readBody(&body))

	require.Error(t, err)
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{DefaultRetryDelay, DefaultRetryDelay}, timer.delays)
	assert.Empty(t, body)
}

func TestDoRequest_SucceedsOnSecondAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	timer := newFakeTimer()
	c := newTestClient(srv.Client(), timer)

	var body string
	err := c.DoRequest(context.Background(), getRequest(srv.URL), readBody(&body))

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Len(t, timer.delays, 1)
}

func TestDoRequest_TransportErrorIsRetried(t *testing.T) {
	calls := 0
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("fine")),
		}, nil
	})

	timer := newFakeTimer()
	c := newTestClient(doer, timer)

	var body string
	err := c.DoRequest(context.Background(), getRequest("http://example.invalid"), readBody(&body))

	require.NoError(t, err)
	assert.Equal(t, "fine", body)
	assert.Equal(t, 3, calls)
	assert.Len(t, timer.delays, 2)
}

func TestDoRequest_PermanentHandlerErrorStops(t *testing.T) {
	calls := 0
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}, nil
	})

	timer := newFakeTimer()
	c := newTestClient(doer, timer)

	sentinel := errors.New("missing field")
	err := c.DoRequest(context.Background(), getRequest("http://example.invalid"), func(resp *http.Response) error {
		return backoff.Permanent(sentinel)
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.delays)
}

func TestDoRequest_CancelledContext(t *testing.T) {
	calls := 0
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(doer, newFakeTimer())
	err := c.DoRequest(ctx, getRequest("http://example.invalid"), func(*http.Response) error { return nil })

	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, calls, 1)
}
