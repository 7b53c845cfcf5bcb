package retry

import (
	"context"
	"errors"
	"net/http"
)

// ErrBodyNotReplayable is returned when a request with a body must be retried
// but offers no GetBody to rewind it.
var ErrBodyNotReplayable = errors.New("retry: request body cannot be replayed")

// Transport applies a retry Config to every round trip. It lets SDK clients
// that only accept an *http.Client share the same policy as hand-built calls.
type Transport struct {
	Base   http.RoundTripper
	Config Config
}

// NewClient returns an *http.Client whose transport retries under cfg
func NewClient(base *http.Client, cfg Config) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   base.Timeout,
		Transport: &Transport{Base: rt, Config: cfg},
	}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	attempt := 0
	return Do(req.Context(), t.Config, func(ctx context.Context) (*http.Response, error) {
		attempt++
		r := req.Clone(ctx)
		if attempt > 1 && req.Body != nil && req.Body != http.NoBody {
			if req.GetBody == nil {
				return nil, Permanent(ErrBodyNotReplayable)
			}
			body, err := req.GetBody()
			if err != nil {
				return nil, Permanent(err)
			}
			r.Body = body
		}
		return base.RoundTrip(r)
	})
}
