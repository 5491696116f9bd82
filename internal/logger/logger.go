package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config controls how log output is produced.
type Config struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string

	// Format is "text" (console encoder) or "json".
	Format string

	// Output is "stdout", "stderr" or a file path. Files are rotated.
	Output string

	// Rotation limits for file output. Zero values use lumberjack defaults
	// (100 MB, no age limit, all backups kept).
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

var (
	mu          sync.RWMutex
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar       = newSugar(Config{Format: "text", Output: "stdout"})
	sink        io.Closer
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func parseLevel(level string) (Level, bool) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	}
	return LevelInfo, false
}

// Init rebuilds the process-wide logger from cfg.
func Init(cfg Config) error {
	if level, ok := parseLevel(cfg.Level); ok {
		atomicLevel.SetLevel(level.zapLevel())
	}

	s, closer, err := buildSugar(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	mu.Lock()
	old, oldSink := sugar, sink
	sugar, sink = s, closer
	mu.Unlock()

	_ = old.Sync()
	if oldSink != nil {
		_ = oldSink.Close()
	}
	return nil
}

// SetLevel changes the minimum level at runtime. Unknown names are ignored.
func SetLevel(level string) {
	if l, ok := parseLevel(level); ok {
		atomicLevel.SetLevel(l.zapLevel())
	}
}

// CurrentLevel returns the active minimum level.
func CurrentLevel() Level {
	switch atomicLevel.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return sugar.Sync()
}

func buildSugar(cfg Config) (*zap.SugaredLogger, io.Closer, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	case "", "text":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		return nil, nil, fmt.Errorf("unknown format %q", cfg.Format)
	}

	out, closer := openSink(cfg)
	core := zapcore.NewCore(encoder, out, atomicLevel)

	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	return l.Sugar(), closer, nil
}

// openSink returns the writer for cfg.Output. File outputs go through a
// rotating lumberjack writer, which the caller closes on re-init.
func openSink(cfg Config) (zapcore.WriteSyncer, io.Closer) {
	switch cfg.Output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
	}
	return zapcore.AddSync(lj), lj
}

func newSugar(cfg Config) *zap.SugaredLogger {
	s, _, err := buildSugar(cfg)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return s
}

func log(level Level, format string, v ...any) {
	mu.RLock()
	s := sugar
	mu.RUnlock()

	switch level {
	case LevelDebug:
		s.Debugf(format, v...)
	case LevelInfo:
		s.Infof(format, v...)
	case LevelWarn:
		s.Warnf(format, v...)
	case LevelError:
		s.Errorf(format, v...)
	}
}

func Debug(format string, v ...any) {
	log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	log(LevelError, format, v...)
}
