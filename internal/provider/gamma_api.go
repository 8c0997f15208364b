package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"gamma-cli/internal/domain"
	applog "gamma-cli/internal/log"
	"gamma-cli/internal/ports"
	"gamma-cli/internal/telemetry"
)

// DefaultBaseURL is the Gamma Generate API v1.0 endpoint.
const DefaultBaseURL = "https://public-api.gamma.app/v1.0"

const (
	defaultTimeout        = 60 * time.Second
	defaultRateLimit      = 5
	defaultRateLimitBurst = 10
	defaultUserAgent      = "gamma-cli"
)

// Options configures the APIClient.  Zero values select defaults.
type Options struct {
	BaseURL string
	// HTTPClient is used as-is when set; otherwise a client with Timeout and
	// an OpenTelemetry instrumented transport is built.
	HTTPClient     *http.Client
	Timeout        time.Duration
	RateLimit      rate.Limit
	RateLimitBurst int
	UserAgent      string
	Logger         *zerolog.Logger
}

// APIClient is a concrete implementation of the GammaClient port that
// communicates with the Gamma REST API over HTTP.  It holds no mutable state
// after construction and may be shared between goroutines.
type APIClient struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewAPIClient constructs a new APIClient against the default endpoint.  If
// httpClient is nil, a client with a 60 second timeout will be used.
func NewAPIClient(apiKey string, httpClient *http.Client) *APIClient {
	return NewAPIClientWithOptions(apiKey, Options{HTTPClient: httpClient})
}

// NewAPIClientWithOptions constructs a new APIClient with explicit options.
func NewAPIClientWithOptions(apiKey string, opts Options) *APIClient {
	opts = normalizeOptions(opts)
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	logger := applog.WithComponent("provider")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &APIClient{
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(opts.RateLimit, opts.RateLimitBurst),
		logger:     logger,
	}
}

func normalizeOptions(opts Options) Options {
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	return opts
}

// BaseURL returns the endpoint the client talks to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

type createResponse struct {
	GenerationID string `json:"generationId"`
}

type listResponse struct {
	Data []json.RawMessage `json:"data"`
}

// CreateGeneration implements the GammaClient interface.  It POSTs the request
// body to /generations and extracts the generationId from the response.
func (c *APIClient) CreateGeneration(ctx context.Context, req domain.GenerationRequest) (domain.JobHandle, error) {
	const op = "create generation"
	if req == nil {
		req = domain.GenerationRequest{}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding request body: %w", err)
	}
	body, err := c.do(ctx, op, http.MethodPost, "/generations", "/generations", payload)
	if err != nil {
		return "", err
	}
	var decoded createResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &DecodeError{Operation: op, Err: err}
	}
	if strings.TrimSpace(decoded.GenerationID) == "" {
		return "", &DecodeError{Operation: op, Err: ErrMissingGenerationID}
	}
	return domain.JobHandle(decoded.GenerationID), nil
}

// GetGenerationStatus implements the GammaClient interface.  It GETs
// /generations/{id} and classifies the status field.  The raw JSON is always
// included in the returned JobStatus.
func (c *APIClient) GetGenerationStatus(ctx context.Context, handle domain.JobHandle) (domain.JobStatus, error) {
	const op = "get generation"
	if strings.TrimSpace(string(handle)) == "" {
		return domain.JobStatus{}, errors.New("generation id is required")
	}
	path := "/generations/" + url.PathEscape(string(handle))
	body, err := c.do(ctx, op, http.MethodGet, "/generations/{id}", path, nil,
		attribute.String(telemetry.GenerationIDKey, string(handle)))
	if err != nil {
		return domain.JobStatus{}, err
	}
	return decodeStatus(op, handle, body)
}

// decodeStatus reads the snapshot leniently from the top-level fields.  Only
// a body that is not a JSON object is a DecodeError; a mistyped optional
// field is left empty and a non-string status becomes StatusUnrecognized with
// its JSON text as RawTag.
func decodeStatus(op string, handle domain.JobHandle, body []byte) (domain.JobStatus, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.JobStatus{}, &DecodeError{Operation: op, Err: err}
	}
	if fields == nil {
		return domain.JobStatus{}, &DecodeError{Operation: op, Err: errors.New("empty response body")}
	}
	status := domain.JobStatus{
		Handle:   handle,
		Tag:      domain.StatusUnrecognized,
		GammaURL: stringField(fields, "gammaUrl"),
		PDFURL:   stringField(fields, "pdfUrl"),
		PPTXURL:  stringField(fields, "pptxUrl"),
		Fields:   fields,
		Raw:      body,
	}
	if id := stringField(fields, "generationId"); id != "" {
		status.Handle = domain.JobHandle(id)
	}
	if credits, ok := fields["credits"].(map[string]any); ok {
		status.Credits = domain.Credits{
			Deducted:  numberField(credits, "deducted"),
			Remaining: numberField(credits, "remaining"),
		}
	}
	switch tag := fields["status"].(type) {
	case nil:
	case string:
		status.RawTag = tag
		status.Tag = domain.ParseStatusTag(tag)
	default:
		raw, _ := json.Marshal(tag)
		status.RawTag = string(raw)
	}
	return status, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// numberField accepts JSON numbers and numeric strings.
func numberField(fields map[string]any, key string) *float64 {
	switch v := fields[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

// ListResources implements the GammaClient interface.  Records are read from
// the data field; a missing or empty data field yields an empty slice.
func (c *APIClient) ListResources(ctx context.Context, kind domain.ResourceKind) ([]domain.ResourceRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	op := "list " + string(kind)
	path := "/" + string(kind)
	body, err := c.do(ctx, op, http.MethodGet, path, path, nil,
		attribute.String(telemetry.ResourceKindKey, string(kind)))
	if err != nil {
		return nil, err
	}
	var decoded listResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &DecodeError{Operation: op, Err: err}
	}
	records := make([]domain.ResourceRecord, 0, len(decoded.Data))
	for i, raw := range decoded.Data {
		var rec domain.ResourceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &DecodeError{Operation: op, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		rec.Raw = raw
		records = append(records, rec)
	}
	logger := applog.WithContext(ctx, c.logger)
	logger.Debug().
		Str(applog.FieldKind, string(kind)).
		Int("count", len(records)).
		Msg("listed resources")
	return records, nil
}

// do performs exactly one HTTP exchange and returns the body of a 2xx
// response.  route is the templated path used for metrics and span labels.
func (c *APIClient) do(ctx context.Context, op, method, route, path string, payload []byte, attrs ...attribute.KeyValue) ([]byte, error) {
	ctx, span := telemetry.Tracer("gamma-cli/provider").Start(ctx, "gamma.api."+strings.ReplaceAll(op, " ", "_"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &TransportError{Operation: op, Err: err}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	logger := applog.WithContext(ctx, c.logger)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		recordRequest(op, 0, time.Since(start), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug().Err(err).Str(applog.FieldOperation, op).Msg("request failed")
		return nil, &TransportError{Operation: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	recordRequest(op, resp.StatusCode, duration, err)
	span.SetAttributes(telemetry.HTTPAttributes(method, route, resp.StatusCode)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &TransportError{Operation: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	logger.Debug().
		Str(applog.FieldOperation, op).
		Str(applog.FieldURL, route).
		Int(applog.FieldHTTPCode, resp.StatusCode).
		Dur("duration", duration).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		span.SetAttributes(attribute.Int("http.response.body.size", len(body)))
		return nil, &RequestError{Operation: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	span.SetStatus(codes.Ok, "")
	return body, nil
}

// Ensure APIClient satisfies the GammaClient interface at compile time.
var _ ports.GammaClient = (*APIClient)(nil)
