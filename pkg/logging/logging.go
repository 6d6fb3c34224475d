// Package logging builds the service logger: ectologger backed by zap.
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/edelweiss/pkg/context"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

// Config selects the log level and encoder.
type Config struct {
	AppName string
	Level   string
	Pretty  bool
}

// New returns a logger writing through zap. The zap logger is returned so the
// caller can Sync it on shutdown.
func New(cfg Config) (ectologger.Logger, *zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Pretty {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, err
	}
	if cfg.AppName != "" {
		zapLogger = zapLogger.With(zap.String("app", cfg.AppName))
	}

	return zapadapter.NewZapEctoLogger(zapLogger, Enrich), zapLogger, nil
}

// Enrich copies request and trace identifiers from the message context into its fields.
func Enrich(msg ectologger.EctoLogMessage) ectologger.EctoLogMessage {
	if msg.Ctx == nil {
		return msg
	}

	fields := make(map[string]interface{}, len(msg.Fields)+4)
	for k, v := range context.Fields(msg.Ctx) {
		fields[k] = v
	}
	if traceID := tracing.GetTraceID(msg.Ctx); traceID != "" {
		fields["trace_id"] = traceID
	}
	for k, v := range msg.Fields {
		fields[k] = v
	}
	msg.Fields = fields
	return msg
}
