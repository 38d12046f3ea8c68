package logs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mslogs/mslogs-sdk-go/config"
	"github.com/mslogs/mslogs-sdk-go/internal/client"
	"github.com/mslogs/mslogs-sdk-go/model"
	"github.com/mslogs/mslogs-sdk-go/pkg/validation"
	"github.com/mslogs/mslogs-sdk-go/utils"
)

const (
	logIngestURI      = "/v1/logs"
	defaultStatusCode = http.StatusOK
)

// ErrIngestClosed is reported for records sent after Shutdown was called.
var ErrIngestClosed = errors.New("log ingest is shut down")

type LogIngest struct {
	client        *http.Client
	url           string
	cfg           *config.Config
	gzip          bool
	trustProxy    bool
	logger        *zap.Logger
	resultHandler ResultHandler
	headers       map[string]string

	mu       sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

// NewLogIngest initializes LogIngest
func NewLogIngest(_ context.Context, opts ...Option) (*LogIngest, error) {
	lli := &LogIngest{
		client: client.Client(),
	}

	for _, opt := range opts {
		if err := opt(lli); err != nil {
			return nil, err
		}
	}

	if lli.url == "" {
		if lli.cfg == nil {
			return nil, fmt.Errorf("either a config or an endpoint must be provided")
		}
		lli.url = lli.cfg.URL()
	}

	if lli.logger == nil {
		level := zap.InfoLevel
		if lli.cfg != nil {
			level = lli.cfg.ParsedLogLevel
		}
		logger, err := newLogger(level)
		if err != nil {
			return nil, fmt.Errorf("error in building logger: %w", err)
		}
		lli.logger = logger
	}

	if lli.resultHandler == nil {
		lli.resultHandler = lli.logResult
	}
	return lli, nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}

// URI returns the endpoint/uri of the logs API
func (lli *LogIngest) URI() string {
	return logIngestURI
}

// Send records one request/response pair with the logs service.
// It returns immediately; the outcome is delivered to the result handler.
func (lli *LogIngest) Send(ctx context.Context, objectID, objectType string, r *http.Request, res *model.Response) {
	lli.SendRecord(ctx, lli.BuildRecord(objectID, objectType, r, res))
}

// SendRecord validates record and posts it in the background.
// Invalid records are reported to the result handler and never posted.
// The record is serialized before SendRecord returns, so the caller may keep
// using the values it references.
func (lli *LogIngest) SendRecord(ctx context.Context, record *model.LogRecord) {
	if err := validation.Validate(record); err != nil {
		lli.deliver(ctx, Result{Record: record, Err: err})
		return
	}

	body, err := marshalRecord(record)
	if err != nil {
		lli.deliver(ctx, Result{Record: record, Err: err})
		return
	}

	lli.mu.Lock()
	if lli.closed {
		lli.mu.Unlock()
		lli.deliver(ctx, Result{Record: record, Err: ErrIngestClosed})
		return
	}
	lli.inFlight.Add(1)
	lli.mu.Unlock()

	// the caller's request may finish before the log is shipped
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer lli.inFlight.Done()

		start := time.Now()
		resp, err := lli.post(ctx, body)
		lli.deliver(ctx, Result{
			Record:   record,
			Response: resp,
			Err:      err,
			Duration: time.Since(start),
		})
	}()
}

// Export validates and posts record synchronously, returning the parsed reply of the logs service.
func (lli *LogIngest) Export(ctx context.Context, record *model.LogRecord) (*utils.Response, error) {
	if err := validation.Validate(record); err != nil {
		return nil, err
	}
	body, err := marshalRecord(record)
	if err != nil {
		return nil, err
	}
	return lli.post(ctx, body)
}

func marshalRecord(record *model.LogRecord) ([]byte, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("error in marshaling log record: %w", err)
	}
	return body, nil
}

func (lli *LogIngest) post(ctx context.Context, body []byte) (*utils.Response, error) {
	cfg := client.RequestConfig{
		Client:  lli.client,
		Url:     lli.url,
		Body:    body,
		Uri:     lli.URI(),
		Method:  http.MethodPost,
		Gzip:    lli.gzip,
		Headers: lli.headers,
	}
	return client.MakeRequest(ctx, cfg)
}

// Shutdown waits until every pending send has been delivered or ctx is done.
// Records sent afterwards are reported to the result handler with ErrIngestClosed.
func (lli *LogIngest) Shutdown(ctx context.Context) error {
	lli.mu.Lock()
	lli.closed = true
	lli.mu.Unlock()

	done := make(chan struct{})
	go func() {
		lli.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BuildRecord assembles the LogRecord for a request and the response produced for it.
// A nil request or response leaves the matching section empty, which fails validation.
func (lli *LogIngest) BuildRecord(objectID, objectType string, r *http.Request, res *model.Response) *model.LogRecord {
	record := &model.LogRecord{
		ObjectID:   objectID,
		ObjectType: objectType,
	}
	if r != nil {
		record.Data = CaptureRequest(r, lli.trustProxy)
	}
	if res != nil {
		record.Response = BuildResponseData(res)
	}
	return record
}

// BuildResponseData applies the logs service conventions: a string result
// marks a failure and a missing status code means 200.
func BuildResponseData(res *model.Response) *model.ResponseData {
	statusCode := res.StatusCode
	if statusCode == 0 {
		statusCode = defaultStatusCode
	}
	_, isString := res.Result.(string)
	return &model.ResponseData{
		StatusCode: statusCode,
		Success:    !isString,
		Result:     res.Result,
	}
}
