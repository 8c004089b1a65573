// file: internals/helpers/logger/logger.go
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// callerOpts: lewati frame wrapper (method Logger / shortcut package) agar caller = pemanggil asli.
var callerOpts = []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

var (
	mu     sync.RWMutex
	global = &Logger{SugaredLogger: zap.NewNop().Sugar()}
)

// New membangun logger zap sesuai mode ("prod"/"production" → JSON, selain itu development).
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	z, err := cfg.Build(callerOpts...)
	if err != nil {
		return nil, err
	}
	return fromZap(z), nil
}

func fromZap(z *zap.Logger) *Logger {
	return &Logger{SugaredLogger: z.Sugar()}
}

// Init memasang logger global. Sebelum Init dipanggil, semua log dibuang (nop).
func Init(mode string) error {
	l, err := New(mode)
	if err != nil {
		return err
	}
	setGlobal(l)
	return nil
}

func setGlobal(l *Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

func L() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...any) { l.SugaredLogger.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.SugaredLogger.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.SugaredLogger.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.SugaredLogger.Errorw(msg, kv...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.SugaredLogger.Fatalw(msg, kv...) }

// Shortcut package-level, dipakai di service/controller.
// Langsung ke SugaredLogger: jumlah frame sama dengan method Logger.
func Debug(msg string, kv ...any) { L().SugaredLogger.Debugw(msg, kv...) }
func Info(msg string, kv ...any)  { L().SugaredLogger.Infow(msg, kv...) }
func Warn(msg string, kv ...any)  { L().SugaredLogger.Warnw(msg, kv...) }
func Error(msg string, kv ...any) { L().SugaredLogger.Errorw(msg, kv...) }
func Fatal(msg string, kv ...any) { L().SugaredLogger.Fatalw(msg, kv...) }
func Sync()                       { L().Sync() }
