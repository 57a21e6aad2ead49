package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes through otelzap so trace ids are attached, and optionally
// pushes each entry to Loki.
type Logger struct {
	*otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// New builds a production zap logger. Loki push is disabled when lokiURL
// is empty.
func New(serviceName, lokiURL string) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return wrap(zapLogger, serviceName, lokiURL), nil
}

// NewNop discards everything; used by tests.
func NewNop() *Logger {
	return wrap(zap.NewNop(), "test", "")
}

func wrap(zapLogger *zap.Logger, serviceName, lokiURL string) *Logger {
	l := &Logger{
		Logger:      otelzap.New(zapLogger),
		ServiceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		l.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return l
}

// Zap exposes the plain zap logger for components that do not need trace
// correlation.
func (l *Logger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *Logger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *Logger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logFields := append(fields, zap.String("service", l.ServiceName))

	switch level {
	case zapcore.ErrorLevel:
		l.Ctx(ctx).Error(msg, logFields...)
	case zapcore.WarnLevel:
		l.Ctx(ctx).Warn(msg, logFields...)
	default:
		l.Ctx(ctx).Info(msg, logFields...)
	}

	if l.lokiURL == "" {
		return
	}

	entry := l.lokiEntry(ctx, level, msg, logFields)
	go l.push(entry)
}

func (l *Logger) lokiEntry(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) LokiLogEntry {
	enc := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(enc)
	}

	enc.Fields["timestamp"] = time.Now().Format(time.RFC3339Nano)
	enc.Fields["level"] = level.String()
	enc.Fields["message"] = msg

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		enc.Fields["trace_id"] = span.SpanContext().TraceID().String()
		enc.Fields["span_id"] = span.SpanContext().SpanID().String()
	}

	line, err := json.Marshal(enc.Fields)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"message":%q}`, msg))
	}

	return LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(line)},
				},
			},
		},
	}
}

func (l *Logger) push(entry LokiLogEntry) {
	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
}
