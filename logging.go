package mfdata

import (
	"time"

	"github.com/go-logr/logr"
)

// LoadLogEvent describes one cell load.
type LoadLogEvent struct {
	Field    string
	Key      int
	Keyed    bool
	Line     string
	Duration time.Duration
	Err      error
}

// LoadLogger records load events.
type LoadLogger interface {
	LogLoad(LoadLogEvent)
}

// LoadLoggerFunc adapts a function to LoadLogger.
type LoadLoggerFunc func(LoadLogEvent)

// LogLoad implements LoadLogger.
func (f LoadLoggerFunc) LogLoad(event LoadLogEvent) {
	if f != nil {
		f(event)
	}
}

// EvaluatorLogEvent describes an evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Package  string
	Period   string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogLoad(LoadLogEvent)           {}
func (noopLogger) LogEvaluation(EvaluatorLogEvent) {}

// LogrLogger routes load and evaluation events to a logr.Logger. Successful
// events are logged at V(1); failures are logged as errors.
type LogrLogger struct {
	Logger logr.Logger
}

// NewLogrLogger wraps l.
func NewLogrLogger(l logr.Logger) LogrLogger {
	return LogrLogger{Logger: l}
}

// LogLoad implements LoadLogger.
func (l LogrLogger) LogLoad(event LoadLogEvent) {
	kv := []any{"field", event.Field, "duration", event.Duration}
	if event.Keyed {
		kv = append(kv, "period", event.Key)
	}
	if event.Err != nil {
		l.Logger.Error(event.Err, "load failed", append(kv, "line", event.Line)...)
		return
	}
	l.Logger.V(1).Info("loaded", kv...)
}

// LogEvaluation implements EvaluatorLogger.
func (l LogrLogger) LogEvaluation(event EvaluatorLogEvent) {
	kv := []any{"engine", event.Engine, "expr", event.Expr, "package", event.Package, "duration", event.Duration}
	if event.Period != "" {
		kv = append(kv, "period", event.Period)
	}
	if event.Err != nil {
		l.Logger.Error(event.Err, "evaluation failed", kv...)
		return
	}
	l.Logger.V(1).Info("evaluated", kv...)
}
