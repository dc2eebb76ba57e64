package mfdata

import (
	"fmt"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// maxCallArgs is the largest argument count call(name, ...) accepts in CEL.
const maxCallArgs = 3

const celEngine = "cel"

// celEvaluator declares every snapshot field as a dyn variable, so a
// program is compiled and cached once per expression and set of field
// names.
type celEvaluator struct {
	cfg engineConfig
}

// NewCELEvaluator returns an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...EngineOption) Evaluator {
	return &celEvaluator{cfg: newEngineConfig(opts)}
}

func (e *celEvaluator) engine() string { return celEngine }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, compileError(celEngine, "", ErrEmptyExpression)
	}
	ctx = ctx.withDefaults()
	snapshot := snapshotAsMap(ctx.Snapshot)
	names := snapshotNames(snapshot)
	program, err := cachedProgram(e.cfg, celEngine, strings.Join(names, ",")+":"+expression, func() (celgo.Program, error) {
		return e.compile(expression, names)
	})
	if err != nil {
		return nil, compileError(celEngine, expression, err)
	}
	activation := ctx.bindings()
	for _, name := range names {
		activation[name] = snapshot[name]
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return nil, runError(celEngine, expression, ctx, err)
	}
	return out.Value(), nil
}

// Compile defers type checking to the first evaluation, since the declared
// variables depend on the snapshot.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, compileError(celEngine, "", ErrEmptyExpression)
	}
	return compiledRule(func(ctx RuleContext) (any, error) {
		return e.Evaluate(ctx, expression)
	}), nil
}

func (e *celEvaluator) compile(expression string, names []string) (celgo.Program, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("pkg", celgo.StringType),
		celgo.Variable("period", celgo.IntType),
	}
	if e.cfg.registry != nil {
		opts = append(opts, celgo.Function("call", e.callOverloads()...))
	}
	for _, name := range names {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return env.Program(ast)
}

// celReserved are identifiers CEL rejects as variable names.
var celReserved = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "else": true,
	"for": true, "function": true, "if": true, "import": true, "let": true,
	"loop": true, "package": true, "namespace": true, "return": true,
	"var": true, "void": true, "while": true, "in": true, "null": true,
	"true": true, "false": true,
}

// snapshotNames lists the snapshot keys that can be declared as variables.
func snapshotNames(snapshot map[string]any) []string {
	reserved := RuleContext{}.bindings()
	names := make([]string, 0, len(snapshot))
	for key := range snapshot {
		if _, ok := reserved[key]; ok || celReserved[key] || !functionName.MatchString(key) {
			continue
		}
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

func (e *celEvaluator) callOverloads() []celgo.FunctionOpt {
	overloads := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
	for n := 0; n <= maxCallArgs; n++ {
		args := []*celgo.Type{celgo.StringType}
		for i := 0; i < n; i++ {
			args = append(args, celgo.DynType)
		}
		overloads = append(overloads, celgo.Overload(
			fmt.Sprintf("call_string_dyn%d", n),
			args,
			celgo.DynType,
			celgo.FunctionBinding(e.callBinding),
		))
	}
	return overloads
}

func (e *celEvaluator) callBinding(values ...ref.Val) ref.Val {
	if len(values) == 0 {
		return types.NewErr("mfdata: call requires function name")
	}
	name, ok := values[0].Value().(string)
	if !ok {
		return types.NewErr("mfdata: call name must be string")
	}
	args := make([]any, 0, len(values)-1)
	for _, val := range values[1:] {
		args = append(args, val.Value())
	}
	result, err := e.cfg.call(name, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
