package logger

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Service string
	Env     string
	// LokiURL enables pushing every entry to Loki when set.
	LokiURL string
}

// Logger writes JSON to stdout and, optionally, to Loki. Entries logged
// through Ctx carry the trace and span ids of the active span.
type Logger struct {
	*otelzap.Logger
	loki *lokiWriter
}

func New(opts Options) (*Logger, error) {
	config := zap.NewProductionConfig()

	if opts.Env == "development" {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", opts.Service)))

	if err != nil {
		return nil, fmt.Errorf("logger: building zap logger: %w", err)
	}

	l := &Logger{}

	if opts.LokiURL != "" {
		l.loki = newLokiWriter(opts.LokiURL, opts.Service, &http.Client{Timeout: 5 * time.Second})

		lokiCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(config.EncoderConfig),
			zapcore.AddSync(l.loki),
			config.Level,
		)

		zapLogger = zapLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, lokiCore)
		}))
	}

	l.Logger = otelzap.New(zapLogger,
		otelzap.WithMinLevel(zapcore.InfoLevel),
		otelzap.WithTraceIDField(true),
	)

	return l, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{Logger: otelzap.New(zap.NewNop())}
}

func (l *Logger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *Logger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Ctx(ctx).Info(msg, fields...)
}

func (l *Logger) ErrorCtx(ctx context.Context, err error, msg string, fields ...zap.Field) {
	l.Ctx(ctx).Error(msg, append(fields, zap.Error(err))...)
}

// Close flushes stdout and waits for queued Loki pushes.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()

	if l.loki != nil {
		l.loki.Close()
	}

	return nil
}
