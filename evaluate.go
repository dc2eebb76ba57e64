package mfdata

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator is returned for an engine that is not built in.
var ErrNoEvaluator = errors.New("mfdata: evaluator not available")

// Evaluate runs expr against the package snapshot at period 0.
func (p *Package) Evaluate(expr string) (Response[any], error) {
	return p.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr using ctx. A nil ctx.Snapshot is replaced with the
// package snapshot at ctx.Period. Evaluation never changes package data.
func (p *Package) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, ErrEmptyExpression
	}
	evaluator := p.resolveEvaluator()
	if ctx.Snapshot == nil {
		ctx.Snapshot = p.Snapshot(ctx.Period)
	}
	if ctx.Package == "" {
		ctx.Package = p.name
	}
	ctx = ctx.withDefaults()

	engine := engineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = annotate(evalErr, engine, expr, ctx)
	p.cfg.evaluatorLog().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Package:  ctx.label(),
		Period:   fmt.Sprint(ctx.Period),
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

// resolveEvaluator falls back to an expr evaluator sharing the package
// cache and functions.
func (p *Package) resolveEvaluator() Evaluator {
	if p.cfg.evaluator == nil {
		p.cfg.evaluator = NewExprEvaluator(EngineCache(p.cfg.programCache), EngineFunctions(p.cfg.functions))
	}
	return p.cfg.evaluator
}
