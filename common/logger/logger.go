package logger

import (
	"bedlevel/common/config"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger

	onceKeys   = map[string]struct{}{}
	onceKeysMu sync.Mutex
)

type LogLevel int8

const (
	DebugLevel LogLevel = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

func ParseLevel(name string) LogLevel {
	switch name {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func newEncoder(color bool) zapcore.Encoder {
	encodeLevel := zapcore.CapitalLevelEncoder
	if color {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "logger",
		CallerKey:        "caller",
		EncodeLevel:      encodeLevel,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	return zapcore.NewConsoleEncoder(encoderConfig)
}

func newConsoleCore(encoder zapcore.Encoder, level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
}

func newFileCore(encoder zapcore.Encoder, level zapcore.Level, logfile string, maxSize, maxBackups, maxAge int) zapcore.Core {
	logFile := &lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   false,
		LocalTime:  true,
	}

	return zapcore.NewCore(encoder, zapcore.AddSync(logFile), level)
}

// InitLogger installs the package logger. An empty logfile keeps output on
// the console only.
func InitLogger(level LogLevel, logfile string, supportColor bool, maxSize, maxBackups, maxAge int) {
	encoder := newEncoder(supportColor)
	cores := []zapcore.Core{newConsoleCore(encoder, zapcore.Level(level))}
	if logfile != "" {
		// the rotated file never carries colour escapes
		cores = append(cores, newFileCore(newEncoder(false), zapcore.Level(level), logfile, maxSize, maxBackups, maxAge))
	}
	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	resetOnce()
}

func InitFromConfig(cfg config.LogConfig) {
	InitLogger(ParseLevel(cfg.Level), cfg.File, cfg.Color, cfg.MaxSize, cfg.MaxBackups, cfg.MaxAge)
}

// SetLogger replaces the package logger, mostly for tests that observe output.
func SetLogger(l *zap.Logger) {
	Logger = l
	resetOnce()
}

// Named returns a component logger. It falls back to a no-op logger until
// InitLogger has run.
func Named(name string) *zap.SugaredLogger {
	if Logger == nil {
		return zap.NewNop().Sugar()
	}
	return Logger.WithOptions(zap.AddCallerSkip(-1)).Named(name).Sugar()
}

func Sync() {
	if Logger != nil {
		err := Logger.Sync()
		if err != nil {
			log.Printf("failed to sync logger: %v", err)
		}
	}
}

func resetOnce() {
	onceKeysMu.Lock()
	onceKeys = map[string]struct{}{}
	onceKeysMu.Unlock()
}

// WarnOncef logs a warning the first time key is seen.
func WarnOncef(key string, format string, args ...interface{}) {
	if Logger == nil {
		return
	}
	onceKeysMu.Lock()
	_, seen := onceKeys[key]
	if !seen {
		onceKeys[key] = struct{}{}
	}
	onceKeysMu.Unlock()
	if !seen {
		Logger.Sugar().Warnf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Infof(format, args...)
	}
}

func Info(args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Info(args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Debugf(format, args...)
	}
}

func Debug(args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Debug(args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Warnf(format, args...)
	}
}

func Warn(args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Warn(args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Errorf(format, args...)
	}
}

func Error(args ...interface{}) {
	if Logger != nil {
		Logger.Sugar().Error(args...)
	}
}

func Fatalf(format string, args ...interface{}) {
	if Logger != nil {
		message := fmt.Sprintf(format, args...)
		Logger.Fatal(message)
	}
	os.Exit(1)
}
