package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mslogs/mslogs-sdk-go/model"
	"github.com/mslogs/mslogs-sdk-go/utils"
)

// Result is the outcome of one Send. Record is the value that was sent and
// may still reference values owned by the caller of Send.
type Result struct {
	Record   *model.LogRecord
	Response *utils.Response
	Err      error
	Duration time.Duration
}

// ResultHandler receives the outcome of every Send. It may be called from
// any goroutine.
type ResultHandler func(ctx context.Context, result Result)

// deliver hands result to the configured handler. A panicking handler is
// logged instead of escaping into the caller or the background goroutine.
func (lli *LogIngest) deliver(ctx context.Context, result Result) {
	defer func() {
		if r := recover(); r != nil {
			lli.logger.Error("Result handler panicked", zap.Any("panic", r))
		}
	}()
	lli.resultHandler(ctx, result)
}

// logResult is the default ResultHandler: failures go to the diagnostic log.
func (lli *LogIngest) logResult(_ context.Context, result Result) {
	fields := recordFields(result.Record)

	var validationErr *model.ValidationError
	switch {
	case result.Err == nil:
		fields = append(fields, zap.Duration("duration", result.Duration))
		if result.Response != nil {
			fields = append(fields, zap.Int("status_code", result.Response.StatusCode))
		}
		lli.logger.Debug("Log saved in MS-Logs", fields...)
	case errors.As(result.Err, &validationErr):
		lli.logger.Error("Error on Validation", append(fields, zap.Error(result.Err))...)
	default:
		lli.logger.Error("Error Save Log in MS-Logs", append(fields, zap.Error(result.Err))...)
	}
}

func recordFields(record *model.LogRecord) []zap.Field {
	if record == nil {
		return nil
	}
	fields := []zap.Field{
		zap.String("object_id", record.ObjectID),
		zap.String("object_type", record.ObjectType),
	}
	if record.Data != nil {
		fields = append(fields, zap.String("route", fmt.Sprintf("%s %s", record.Data.Method, record.Data.OriginalURL)))
	}
	return fields
}
