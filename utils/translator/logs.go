package translator

import (
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"

	"github.com/mslogs/mslogs-sdk-go/model"
)

const (
	serviceName = "mslogs"
	scopeName   = "github.com/mslogs/mslogs-sdk-go"
)

// ConvertToPLogs mirrors a LogRecord into OpenTelemetry log data so that it can
// be handed to an OTLP pipeline alongside the logs service.
func ConvertToPLogs(record *model.LogRecord, observed time.Time) (plog.Logs, error) {
	logs := plog.NewLogs()
	if record == nil {
		return logs, fmt.Errorf("nil log record")
	}

	rl := logs.ResourceLogs().AppendEmpty()
	rl.Resource().Attributes().PutStr("service.name", serviceName)

	sl := rl.ScopeLogs().AppendEmpty()
	sl.Scope().SetName(scopeName)

	lr := sl.LogRecords().AppendEmpty()
	lr.SetTimestamp(pcommon.NewTimestampFromTime(observed))
	lr.SetObservedTimestamp(pcommon.NewTimestampFromTime(observed))

	attrs := lr.Attributes()
	attrs.PutStr("objectId", record.ObjectID)
	attrs.PutStr("objectType", record.ObjectType)
	if record.Data != nil {
		attrs.PutStr("http.method", record.Data.Method)
		attrs.PutStr("http.target", record.Data.OriginalURL)
	}

	lr.SetSeverityNumber(plog.SeverityNumberInfo)
	lr.SetSeverityText("INFO")
	if record.Response != nil {
		attrs.PutInt("http.status_code", int64(record.Response.StatusCode))
		attrs.PutBool("success", record.Response.Success)
		if !record.Response.Success {
			lr.SetSeverityNumber(plog.SeverityNumberWarn)
			lr.SetSeverityText("WARN")
		}
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return logs, fmt.Errorf("error in marshaling log record: %w", err)
	}
	var body map[string]interface{}
	if err = json.Unmarshal(raw, &body); err != nil {
		return logs, fmt.Errorf("error in decoding log record: %w", err)
	}
	putMap(lr.Body().SetEmptyMap(), body)
	return logs, nil
}

func putMap(dest pcommon.Map, src map[string]interface{}) {
	for key, value := range src {
		putValue(dest.PutEmpty(key), value)
	}
}

// putValue copies a JSON-decoded value into an OpenTelemetry value.
func putValue(dest pcommon.Value, src interface{}) {
	switch v := src.(type) {
	case nil:
	case string:
		dest.SetStr(v)
	case bool:
		dest.SetBool(v)
	case float64:
		if v == float64(int64(v)) {
			dest.SetInt(int64(v))
		} else {
			dest.SetDouble(v)
		}
	case map[string]interface{}:
		putMap(dest.SetEmptyMap(), v)
	case []interface{}:
		slice := dest.SetEmptySlice()
		for _, item := range v {
			putValue(slice.AppendEmpty(), item)
		}
	default:
		dest.SetStr(fmt.Sprint(v))
	}
}
