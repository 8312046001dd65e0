// Package sequence talks to the Sequence indexer and metadata services over
// their webrpc JSON API.
package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"holdersnap/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WebRPCError is the error payload returned by webrpc services on a
// non-200 reply.
type WebRPCError struct {
	Name       string `json:"error"`
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
	Cause      string `json:"cause,omitempty"`
	HTTPStatus int    `json:"status"`
}

func (e *WebRPCError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("%s %d: %s: %s", e.Name, e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s %d: %s", e.Name, e.Code, e.Msg)
}

// Options configures a service client.
type Options struct {
	AccessKey string
	// Timeout bounds each request when the context has no deadline.
	// Zero means requests never time out.
	Timeout time.Duration
	// Limiter, when set, is waited on before every request. Clients built
	// from the same Source share one limiter.
	Limiter *rate.Limiter
}

type transport struct {
	client  *fasthttp.Client
	baseURL string
	service string
	opts    Options
	logger  *zap.Logger
}

func newTransport(baseURL, service string, opts Options, logger *zap.Logger) *transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &transport{
		client:  &fasthttp.Client{Name: "holdersnap"},
		baseURL: strings.TrimRight(baseURL, "/"),
		service: service,
		opts:    opts,
		logger:  logger,
	}
}

func (t *transport) url(method string) string {
	return fmt.Sprintf("%s/rpc/%s/%s", t.baseURL, t.service, method)
}

// call POSTs in as JSON to the given method and decodes the reply into out.
func (t *transport) call(ctx context.Context, method string, in, out any) error {
	if t.opts.Limiter != nil {
		if err := t.opts.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	requestURL := t.url(method)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if t.opts.AccessKey != "" {
		req.Header.Set("X-Access-Key", t.opts.AccessKey)
	}
	req.SetBodyRaw(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	t.logger.Debug("Sending request", zap.String("url", requestURL), zap.ByteString("body", body))

	start := time.Now()
	err = t.do(ctx, req, resp)
	metrics.ServiceLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ServiceRequests.WithLabelValues(method, "transport_error").Inc()
		t.logger.Warn("Request failed", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("%s request to %s failed: %w", method, requestURL, err)
	}

	rawBody := resp.Body()
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		metrics.ServiceRequests.WithLabelValues(method, "http_error").Inc()
		t.logger.Warn("Service returned an error",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody),
		)
		var werr WebRPCError
		if err := json.Unmarshal(rawBody, &werr); err == nil && (werr.Name != "" || werr.Msg != "") {
			if werr.HTTPStatus == 0 {
				werr.HTTPStatus = status
			}
			return &werr
		}
		return fmt.Errorf("%s request to %s failed with status %d: %s", method, requestURL, status, string(rawBody))
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		metrics.ServiceRequests.WithLabelValues(method, "decode_error").Inc()
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	metrics.ServiceRequests.WithLabelValues(method, "ok").Inc()
	return nil
}

func (t *transport) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return t.client.DoDeadline(req, resp, deadline)
	}
	if t.opts.Timeout > 0 {
		return t.client.DoTimeout(req, resp, t.opts.Timeout)
	}
	return t.client.Do(req, resp)
}

type pingResponse struct {
	Status bool `json:"status"`
}

func (t *transport) ping(ctx context.Context) error {
	var out pingResponse
	if err := t.call(ctx, "Ping", struct{}{}, &out); err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("%s ping at %s reported unhealthy", t.service, t.baseURL)
	}
	return nil
}
