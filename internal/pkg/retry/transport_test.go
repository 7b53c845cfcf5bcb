package retry

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTransport_ReplaysBody(t *testing.T) {
	var calls int32
	var bodies []string
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&calls, 1) == 1 {
			return statusResponse(http.StatusTooManyRequests), nil
		}
		return statusResponse(http.StatusOK), nil
	})

	client := NewClient(&http.Client{Transport: base}, Config{MaxRetries: 3, InitialDelay: time.Millisecond})
	req, err := http.NewRequest(http.MethodPost, "http://upstream.test/v1/chat", bytes.NewBufferString(`{"q":"amanita"}`))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{`{"q":"amanita"}`, `{"q":"amanita"}`}, bodies)
}

func TestTransport_ExhaustionSurfacesStatusError(t *testing.T) {
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return statusResponse(529), nil
	})

	client := NewClient(&http.Client{Transport: base}, DefaultConfig().WithStatuses(529))
	client.Transport.(*Transport).Config.InitialDelay = time.Millisecond

	req, err := http.NewRequest(http.MethodGet, "http://upstream.test/v1/messages", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 529, statusErr.StatusCode)
}

func TestTransport_UnreplayableBodyIsNotRetried(t *testing.T) {
	var calls int32
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.Copy(io.Discard, r.Body)
		return statusResponse(http.StatusServiceUnavailable), nil
	})

	cfg := Config{MaxRetries: 5, InitialDelay: 50 * time.Millisecond, MaxDelay: time.Second}
	client := NewClient(&http.Client{Transport: base}, cfg)
	req, err := http.NewRequest(http.MethodPost, "http://upstream.test/v1/graft", io.NopCloser(bytes.NewBufferString(`{}`)))
	require.NoError(t, err)
	require.Nil(t, req.GetBody)

	start := time.Now()
	_, err = client.Do(req)
	require.ErrorIs(t, err, ErrBodyNotReplayable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}
