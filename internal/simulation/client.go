// Package simulation talks to the external portfolio simulation service and blends its short-term
// result with the long-horizon annuity projection.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodySize    = 1 << 20
)

var (
	// ErrUnavailable means the service answered but not with a usable simulation.
	ErrUnavailable = errors.New("simulation: service unavailable")
	// ErrMalformed means the response could not be decoded or carried no results.
	ErrMalformed = errors.New("simulation: malformed response")
)

// Request is the body sent to the simulation service.
type Request struct {
	Months int `json:"months"`
}

// Result is one simulated portfolio path.
type Result struct {
	InitialValue    float64   `json:"initialValue"`
	ProjectedValue  float64   `json:"projectedValue"`
	MonthsSimulated int       `json:"monthsSimulated"`
	GrowthTrend     []float64 `json:"growth_trend"`
}

// Response is the simulation service payload.
type Response struct {
	Results []Result `json:"results"`
}

// Simulator runs a short portfolio simulation for a client.
type Simulator interface {
	Simulate(ctx context.Context, clientRef string, months int) (*Response, error)
}

// HTTPClient calls the simulation service over HTTP using fasthttp.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
}

// NewHTTPClient creates a client for the service rooted at baseURL.
// Returns nil when baseURL is empty so callers fall back to the fixed-rate projection.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		timeout: timeout,
		client: &fasthttp.Client{
			Name:                "goalfund",
			MaxResponseBodySize: maxBodySize,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
	}
}

// WithDial replaces the dialer, used to route requests through an in-memory listener.
func (c *HTTPClient) WithDial(dial fasthttp.DialFunc) *HTTPClient {
	c.client.Dial = dial
	return c
}

type outcome struct {
	status int
	body   []byte
	err    error
}

// Simulate posts a simulation request and decodes the result. The call is bounded by the client
// timeout and by ctx; a cancelled ctx returns immediately.
func (c *HTTPClient) Simulate(ctx context.Context, clientRef string, months int) (*Response, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	payload, err := json.Marshal(Request{Months: months})
	if err != nil {
		return nil, fmt.Errorf("simulation: encoding request: %w", err)
	}
	uri := fmt.Sprintf("%s/clients/%s/simulations", c.baseURL, url.PathEscape(clientRef))

	done := make(chan outcome, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(uri)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)

		o := outcome{err: c.client.DoTimeout(req, resp, timeout)}
		if o.err == nil {
			o.status = resp.StatusCode()
			o.body = append([]byte(nil), resp.Body()...)
		}
		done <- o
	}()

	var o outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o = <-done:
	}

	if o.err != nil {
		if errors.Is(o.err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("simulation: %w", context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("simulation: request failed: %w", o.err)
	}
	if o.status != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, o.status)
	}

	var out Response
	if err := json.Unmarshal(o.body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &out, nil
}
