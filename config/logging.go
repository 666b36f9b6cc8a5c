package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the default path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "funding-api.log")
}

// InitLogging opens the log file and builds the zap logger that writes to it
// and to stdout. The returned file is nil when the log file could not be opened.
func InitLogging(cfg LogConfig) (*zap.Logger, *os.File) {
	path := cfg.File
	if path == "" {
		path = LogFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
	} else {
		LogWriter = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(LogWriter)

	return NewLogger(cfg.Level, cfg.Format, LogWriter), logFile
}

// NewLogger builds a zap logger at the given level writing to w.
func NewLogger(levelStr, format string, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "console" {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller())
}
