package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   *zap.Logger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// project specific keys
const (
	RequestIDKey = "request_id"
	UserIdKey    = "user_id"
	ReferenceKey = "reference"
	ErrorKey     = "error"
)

func init() {
	var err error
	config := zap.NewProductionConfig()

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	encoderConfig.CallerKey = "caller"
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"

	config.Level = level
	config.EncoderConfig = encoderConfig
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	Log, err = config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
}

// SetLevel changes the minimum level at runtime. Unknown names keep the
// current level and are reported back as an error.
func SetLevel(name string) error {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

type Fields map[string]interface{}

func Info(msg string, fields ...Fields) {
	Log.Info(msg, zapFields(fields)...)
}

func Error(msg string, fields ...Fields) {
	Log.Error(msg, zapFields(fields)...)
}

func Debug(msg string, fields ...Fields) {
	Log.Debug(msg, zapFields(fields)...)
}

func Warn(msg string, fields ...Fields) {
	Log.Warn(msg, zapFields(fields)...)
}

func Fatal(msg string, fields ...Fields) {
	Log.Fatal(msg, zapFields(fields)...)
}

func Sync() {
	_ = Log.Sync()
}

// WithError adds an error field to the log entry
func WithError(err error) Fields {
	return Fields{
		ErrorKey: err.Error(),
	}
}

func Merge(fields ...Fields) Fields {
	merged := make(Fields)
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return merged
}

func zapFields(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	merged := Merge(fields...)
	out := make([]zap.Field, 0, len(merged))
	for k, v := range merged {
		out = append(out, zap.Any(k, v))
	}
	return out
}
