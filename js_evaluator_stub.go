//go:build !js_eval

package mfdata

// NewJSEvaluator is only functional in builds tagged js_eval. Without the
// tag it returns nil and NewEvaluator reports ErrNoEvaluator for "js".
func NewJSEvaluator(...EngineOption) Evaluator { return nil }

func jsEvaluatorAvailable() bool { return false }
