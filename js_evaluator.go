//go:build js_eval

package mfdata

import (
	"errors"
	"time"

	"github.com/dop251/goja"
)

const jsEngine = "js"

// ErrJSTimeout is the interrupt value of a js evaluation that outlived
// its EngineTimeout.
var ErrJSTimeout = errors.New("mfdata: js evaluation timed out")

// jsEvaluator runs every evaluation in a fresh goja runtime. Compiled
// programs carry no runtime state and are shared through the cache.
type jsEvaluator struct {
	cfg engineConfig
}

// NewJSEvaluator returns an Evaluator backed by goja. The expression is
// the body of a return statement.
func NewJSEvaluator(opts ...EngineOption) Evaluator {
	return &jsEvaluator{cfg: newEngineConfig(opts)}
}

func jsEvaluatorAvailable() bool { return true }

func (e *jsEvaluator) engine() string { return jsEngine }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx.withDefaults(), expression, program)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return compiledRule(func(ctx RuleContext) (any, error) {
		return e.run(ctx.withDefaults(), expression, program)
	}), nil
}

func (e *jsEvaluator) program(expression string) (*goja.Program, error) {
	if expression == "" {
		return nil, compileError(jsEngine, "", ErrEmptyExpression)
	}
	program, err := cachedProgram(e.cfg, jsEngine, expression, func() (*goja.Program, error) {
		return goja.Compile("", "(function(){ return ("+expression+"); })()", false)
	})
	return program, compileError(jsEngine, expression, err)
}

func (e *jsEvaluator) run(ctx RuleContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	env := e.cfg.environment(ctx)
	if e.cfg.registry != nil {
		for _, name := range e.cfg.registry.Names() {
			if _, taken := env[name]; !taken {
				env[name] = e.cfg.named(name)
			}
		}
	}
	for key, value := range env {
		if err := vm.Set(key, value); err != nil {
			return nil, runError(jsEngine, expression, ctx, err)
		}
	}
	if e.cfg.timeout > 0 {
		timer := time.AfterFunc(e.cfg.timeout, func() { vm.Interrupt(ErrJSTimeout) })
		defer timer.Stop()
	}
	value, err := vm.RunProgram(program)
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && interrupted.Value() == ErrJSTimeout {
		err = ErrJSTimeout
	}
	if err != nil {
		return nil, runError(jsEngine, expression, ctx, err)
	}
	return value.Export(), nil
}
