package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/scott-cotton/cli"

	mfdata "github.com/goliatone/go-mfdata"
)

func evalMain(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("%w: eval requires a package, a file and an expression, got %v", cli.ErrUsage, args)
	}
	if cfg.Period < 1 {
		return fmt.Errorf("%w: period must be at least 1, got %d", cli.ErrUsage, cfg.Period)
	}
	in, done, err := openInput(args[1])
	if err != nil {
		return err
	}
	defer done()
	return evalPackage(cc.Out, args[0], in, cfg.Engine, cfg.Period-1, strings.Join(args[2:], " "), cfg.Settings.options(cfg.Log)...)
}

// evalTimeout bounds js expressions run from the command line.
const evalTimeout = 5 * time.Second

// evalPackage loads src and prints the value of expr at stress period key
// as JSON.
func evalPackage(w io.Writer, name string, src io.Reader, engine string, key int, expr string, opts ...mfdata.Option) error {
	evaluator, err := mfdata.NewEvaluator(engine,
		mfdata.EngineFunctions(mfdata.BuiltinFunctions()),
		mfdata.EngineTimeout(evalTimeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	pkg, err := mfdata.NewEmbeddedPackage(name, append(opts, mfdata.WithEvaluator(evaluator))...)
	if err != nil {
		return err
	}
	if err := pkg.Load(src); err != nil {
		return err
	}
	res, err := pkg.EvaluateWith(mfdata.RuleContext{Period: key}, expr)
	if err != nil {
		return err
	}
	out, err := json.Marshal(res.Value)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}
