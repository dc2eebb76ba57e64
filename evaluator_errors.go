package mfdata

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrEmptyExpression is returned for a blank expression before any engine
// is consulted.
var ErrEmptyExpression = errors.New("mfdata: expression must not be empty")

// Stage names the step an evaluation failed in.
type Stage string

const (
	StageCompile Stage = "compile"
	StageRun     Stage = "run"
)

// EvaluationError reports a failed expression along with the engine,
// package and stress period it was evaluated for.
type EvaluationError struct {
	Engine  string
	Stage   Stage
	Expr    string
	Package string
	// Period is the zero-based stress period key.
	Period int
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := e.Package
	if where == "" {
		where = "unknown"
	}
	if e.Stage == StageRun {
		where += " period " + strconv.Itoa(e.Period+1)
	}
	expr := "<empty>"
	if e.Expr != "" {
		expr = strconv.Quote(e.Expr)
	}
	return fmt.Sprintf("mfdata: %s %s %s (%s): %v", e.Engine, e.Stage, expr, where, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func compileError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	return &EvaluationError{Engine: engine, Stage: StageCompile, Expr: expr, Err: err}
}

func runError(engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	return &EvaluationError{
		Engine:  engine,
		Stage:   StageRun,
		Expr:    expr,
		Package: ctx.Package,
		Period:  ctx.Period,
		Err:     err,
	}
}

// annotate attaches ctx to err. An EvaluationError already in the chain
// keeps its engine and stage and only has its blank fields filled, so
// errors from custom evaluators end up shaped like the bundled ones.
func annotate(err error, engine, expr string, ctx RuleContext) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return runError(engine, expr, ctx, err)
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Stage == "" {
		evalErr.Stage = StageRun
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Package == "" {
		evalErr.Package = ctx.Package
		evalErr.Period = ctx.Period
	}
	return evalErr
}
