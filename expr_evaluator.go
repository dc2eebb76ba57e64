package mfdata

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const exprEngine = "expr"

// exprEvaluator is the default engine. Programs are compiled against an
// empty environment with undefined variables allowed, so one program runs
// against the snapshot of any package and period.
type exprEvaluator struct {
	cfg engineConfig
}

// NewExprEvaluator returns an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...EngineOption) Evaluator {
	return &exprEvaluator{cfg: newEngineConfig(opts)}
}

func (e *exprEvaluator) engine() string { return exprEngine }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx.withDefaults(), expression, program)
}

func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return compiledRule(func(ctx RuleContext) (any, error) {
		return e.run(ctx.withDefaults(), expression, program)
	}), nil
}

func (e *exprEvaluator) program(expression string) (*exprvm.Program, error) {
	if expression == "" {
		return nil, compileError(exprEngine, "", ErrEmptyExpression)
	}
	program, err := cachedProgram(e.cfg, exprEngine, expression, func() (*exprvm.Program, error) {
		options := []exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		}
		if e.cfg.registry != nil {
			for _, name := range e.cfg.registry.Names() {
				options = append(options, exprlang.Function(name, e.cfg.named(name)))
			}
		}
		return exprlang.Compile(expression, options...)
	})
	return program, compileError(exprEngine, expression, err)
}

func (e *exprEvaluator) run(ctx RuleContext, expression string, program *exprvm.Program) (any, error) {
	result, err := exprlang.Run(program, e.cfg.environment(ctx))
	if err != nil {
		return nil, runError(exprEngine, expression, ctx, err)
	}
	return result, nil
}
