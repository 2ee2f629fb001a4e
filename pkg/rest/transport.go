package rest

import (
	"net/http"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 500 * time.Millisecond
)

// RetryTransport retries failed HTTP exchanges a bounded number of
// times with a fixed delay. It covers transport errors and 5xx
// responses only; interpreting anything else is the caller's job.
//
// This is the transport-retry layer. It is intentionally separate from
// the convergence poller in internal/poll, which retries business
// predicates, not broken exchanges.
type RetryTransport struct {
	Base     http.RoundTripper
	Attempts int
	Delay    time.Duration
}

// NewRetryTransport wraps base with the default attempt budget.
func NewRetryTransport(base http.RoundTripper) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RetryTransport{Base: base, Attempts: defaultRetryAttempts, Delay: defaultRetryDelay}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := t.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if req.Body != nil && req.GetBody == nil {
				// Body already consumed and not rewindable.
				return resp, err
			}
			if resp != nil {
				resp.Body.Close()
			}
			timer := time.NewTimer(t.Delay)
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()
			case <-timer.C:
			}
			if req.GetBody != nil {
				body, berr := req.GetBody()
				if berr != nil {
					return nil, berr
				}
				req = req.Clone(req.Context())
				req.Body = body
			}
		}

		resp, err = t.Base.RoundTrip(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
	}

	return resp, err
}
