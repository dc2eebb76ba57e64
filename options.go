package mfdata

import (
	"github.com/goliatone/go-mfdata/pkg/activity"
	"github.com/goliatone/go-mfdata/storage"
)

// DefaultIndent is the separator written before and between rendered items.
const DefaultIndent = "  "

// Option configures a cell, block or package.
type Option func(*config)

type config struct {
	indent     string
	precision  int
	loadLogger LoadLogger
	comments   CommentSink
	keywords   KeywordMatcher
	emitter    *activity.Emitter
	pkg        string
	data       any
	hasData    bool

	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	evalLogger      EvaluatorLogger
	schemaGenerator SchemaGenerator
}

func applyOptions(opts []Option) config {
	cfg := config{indent: DefaultIndent}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// options returns Options reproducing cfg, minus the initial data.
func (cfg config) options() []Option {
	shared := cfg
	shared.data = nil
	shared.hasData = false
	return []Option{func(c *config) { *c = shared }}
}

func (cfg config) loadLog() LoadLogger {
	if cfg.loadLogger != nil {
		return cfg.loadLogger
	}
	return noopLogger{}
}

func (cfg config) evaluatorLog() EvaluatorLogger {
	if cfg.evalLogger != nil {
		return cfg.evalLogger
	}
	return noopLogger{}
}

func (cfg config) keywordMatcher() KeywordMatcher {
	if cfg.keywords != nil {
		return cfg.keywords
	}
	return DefaultKeywordMatcher()
}

func (cfg config) newStorage() *storage.Storage {
	return storage.New(storage.WithFloatPrecision(cfg.precision))
}

// WithIndent sets the indent string placed before and between rendered items.
func WithIndent(indent string) Option {
	return func(cfg *config) {
		cfg.indent = indent
	}
}

// WithFloatPrecision renders doubles in exponent form with digits mantissa
// digits. Zero keeps the shortest round-trip form.
func WithFloatPrecision(digits int) Option {
	return func(cfg *config) {
		if digits < 0 {
			digits = 0
		}
		cfg.precision = digits
	}
}

// WithLoadLogger attaches a logger notified after every load.
func WithLoadLogger(logger LoadLogger) Option {
	return func(cfg *config) {
		cfg.loadLogger = logger
	}
}

// WithCommentSink routes pre-data and trailing line comments to sink.
func WithCommentSink(sink CommentSink) Option {
	return func(cfg *config) {
		cfg.comments = sink
	}
}

// WithKeywordMatcher replaces the leading keyword validation step.
func WithKeywordMatcher(matcher KeywordMatcher) Option {
	return func(cfg *config) {
		cfg.keywords = matcher
	}
}

// WithActivityEmitter emits data events for set, load and add-one operations.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// WithPackageName labels emitted events and evaluation logs.
func WithPackageName(name string) Option {
	return func(cfg *config) {
		cfg.pkg = name
	}
}

// WithData sets the initial value of a scalar cell.
func WithData(value any) Option {
	return func(cfg *config) {
		cfg.data = value
		cfg.hasData = true
	}
}

// WithEvaluator replaces the default expr evaluator used by Package.Evaluate.
func WithEvaluator(evaluator Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = evaluator
	}
}

// WithEvaluatorLogger attaches a logger notified after every evaluation.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *config) {
		cfg.evalLogger = logger
	}
}

// WithLogger routes both load and evaluation events to logger.
func WithLogger(logger LogrLogger) Option {
	return func(cfg *config) {
		cfg.loadLogger = logger
		cfg.evalLogger = logger
	}
}
