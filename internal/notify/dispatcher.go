// Package notify delivers deployment results to caller-supplied
// evaluation callbacks with bounded exponential backoff.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/pagesmith/internal/types"
)

// Policy describes the retry behavior of a Dispatcher: how many
// attempts, how long to wait between them, and the per-attempt timeout.
// Success is an HTTP 200 response.
type Policy struct {
	MaxAttempts       int
	Delays            []time.Duration
	PerAttemptTimeout time.Duration
}

// DefaultPolicy returns the standard callback policy: 5 attempts,
// 1/2/4/8/16s backoff between attempts, 10s per attempt.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Delays: []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			16 * time.Second,
		},
		PerAttemptTimeout: 10 * time.Second,
	}
}

// delay returns the wait before attempt n+1, clamping to the last entry.
func (p Policy) delay(n int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if n >= len(p.Delays) {
		n = len(p.Delays) - 1
	}
	return p.Delays[n]
}

// Dispatcher posts deployment results to evaluation callbacks. It never
// reports failure to its caller: by the time it runs the deployment has
// already succeeded, so callback failures are logged and absorbed.
type Dispatcher struct {
	policy Policy
	client *http.Client
	sleep  func(time.Duration)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the HTTP client, for tests with fake transports.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) { d.client = client }
}

// WithSleep replaces the inter-attempt sleep, for tests with fake clocks.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) { d.sleep = sleep }
}

// NewDispatcher creates a Dispatcher with the given policy.
func NewDispatcher(policy Policy, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		policy: policy,
		client: &http.Client{},
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify posts the result to url as JSON, retrying per the policy and
// stopping on the first 200 response. Waits occur only between
// attempts, never after the last. A missing url skips dispatch
// entirely. Returns the number of attempts made, for observability.
func (d *Dispatcher) Notify(ctx context.Context, url string, result *types.DeployResult) int {
	if url == "" {
		return 0
	}

	body, err := json.Marshal(result)
	if err != nil {
		log.Printf("Warning: evaluation callback payload marshal failed: %v", err)
		return 0
	}

	attempts := 0
	for attempt := 0; attempt < d.policy.MaxAttempts; attempt++ {
		attempts++
		if d.post(ctx, url, body) {
			return attempts
		}
		if attempt < d.policy.MaxAttempts-1 {
			d.sleep(d.policy.delay(attempt))
		}
	}

	log.Printf("Warning: evaluation callback to %s failed after %d attempts", url, attempts)
	return attempts
}

// post performs one attempt; any transport error or non-200 status
// counts as a failed attempt.
func (d *Dispatcher) post(ctx context.Context, url string, body []byte) bool {
	attemptCtx := ctx
	if d.policy.PerAttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, d.policy.PerAttemptTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Warning: evaluation callback request build failed: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("Warning: evaluation callback attempt failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
