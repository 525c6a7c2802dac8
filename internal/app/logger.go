package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// newLogger builds an isolated slog.Logger backed by a zap core. Records go
// to outW and, when file is set, are appended to that file too. The returned
// function flushes and closes the outputs.
func newLogger(levelStr, formatStr, file string, outW io.Writer) (*slog.Logger, func(), error) {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	if formatStr == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(outW)}
	closeFile := func() {}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		sink, closeFn, err := zap.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, sink)
		closeFile = closeFn
	}

	ws := zapcore.NewMultiWriteSyncer(sinks...)
	core := zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(level))

	closer := func() {
		_ = ws.Sync()
		closeFile()
	}
	return slog.New(zapslog.NewHandler(core)), closer, nil
}
