package log

import (
	"context"
	"time"

	"github.com/kubev2v/job-tracker/pkg/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger logs one line per operation with its outcome and duration.
//
//	tracer := log.NewDebugLogger("job_service").WithContext(ctx).Operation("create_job").Build()
//	...
//	tracer.Success().WithParam("job_id", id).Log()
type StructuredLogger struct {
	name  string
	level zapcore.Level
}

func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, level: zapcore.DebugLevel}
}

func NewInfoLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, level: zapcore.InfoLevel}
}

func (l *StructuredLogger) WithContext(ctx context.Context) *OperationBuilder {
	return &OperationBuilder{logger: l, requestID: requestid.FromContext(ctx)}
}

type OperationBuilder struct {
	logger    *StructuredLogger
	requestID string
	operation string
	params    []any
}

func (b *OperationBuilder) Operation(name string) *OperationBuilder {
	b.operation = name
	return b
}

func (b *OperationBuilder) WithParam(key string, value any) *OperationBuilder {
	b.params = append(b.params, key, value)
	return b
}

func (b *OperationBuilder) Build() *Tracer {
	return &Tracer{
		logger:    b.logger,
		requestID: b.requestID,
		operation: b.operation,
		params:    b.params,
		start:     time.Now(),
	}
}

type Tracer struct {
	logger    *StructuredLogger
	requestID string
	operation string
	params    []any
	start     time.Time
}

func (t *Tracer) Success() *Entry {
	return t.entry(t.logger.level, "success", nil)
}

func (t *Tracer) Error(err error) *Entry {
	return t.entry(zapcore.ErrorLevel, "error", err)
}

func (t *Tracer) entry(level zapcore.Level, outcome string, err error) *Entry {
	kv := make([]any, 0, len(t.params)+8)
	kv = append(kv, "operation", t.operation, "outcome", outcome)
	if t.requestID != "" {
		kv = append(kv, "request_id", t.requestID)
	}
	kv = append(kv, t.params...)
	if err != nil {
		kv = append(kv, "error", err)
	}
	return &Entry{tracer: t, level: level, kv: kv}
}

type Entry struct {
	tracer *Tracer
	level  zapcore.Level
	kv     []any
}

func (e *Entry) WithParam(key string, value any) *Entry {
	e.kv = append(e.kv, key, value)
	return e
}

func (e *Entry) Log() {
	kv := append(e.kv, "duration", time.Since(e.tracer.start))
	zap.S().Named(e.tracer.logger.name).Logw(e.level, e.tracer.operation, kv...)
}
