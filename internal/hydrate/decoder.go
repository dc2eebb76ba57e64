// Package hydrate decodes value files into typed structs. Payloads pass
// through pre-hooks as generic maps, are decoded through encoding/json and
// then handed to post-hooks for validation.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Context identifies the payload being decoded.
type Context struct {
	Source  string
	Package string
}

func (c Context) label() string {
	switch {
	case c.Source != "" && c.Package != "":
		return c.Package + " (" + c.Source + ")"
	case c.Source != "":
		return c.Source
	case c.Package != "":
		return c.Package
	}
	return "payload"
}

// PreHook may rewrite the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook may adjust or reject the decoded value.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the JSON decoding step.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts value payloads into T.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	custom       CustomDecoder[T]
}

// WithPreHook runs hook before decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook runs hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber keeps numbers as json.Number when T holds untyped values.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields rejects keys that match no field of T.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithCustomDecoder replaces the JSON decoding step.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

// NewDecoder builds a decoder for T.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Error reports the stage a payload failed in.
type Error struct {
	Payload string
	Stage   string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s: %s: %v", e.Payload, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Decode runs the pre-hooks, decodes and runs the post-hooks. Hooks see a
// deep copy, so payload is never modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var result T
	fail := func(stage string, err error) (T, error) {
		var zero T
		return zero, &Error{Payload: ctx.label(), Stage: stage, Err: err}
	}
	if payload == nil {
		return fail("payload", errors.New("nil mapping"))
	}
	current, _ := normalize(payload).(map[string]any)
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return fail("pre-hook", err)
		}
		if next != nil {
			current = next
		}
	}
	var err error
	if d.custom != nil {
		result, err = d.custom(ctx, current)
	} else {
		result, err = d.decodeJSON(current)
	}
	if err != nil {
		return fail("decode", err)
	}
	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return fail("post-hook", err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) decodeJSON(payload map[string]any) (T, error) {
	var out T
	buffer, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		configure(dec)
	}
	err = dec.Decode(&out)
	return out, err
}

// DecodeBytes parses data as YAML, which also accepts JSON, and decodes it.
func (d *Decoder[T]) DecodeBytes(ctx Context, data []byte) (T, error) {
	var zero T
	payload, err := ParsePayload(data)
	if err != nil {
		return zero, fmt.Errorf("hydrate: %s: %w", ctx.label(), err)
	}
	return d.Decode(ctx, payload)
}

// DecodeFile reads and decodes path. Context.Source defaults to path.
func (d *Decoder[T]) DecodeFile(ctx Context, path string) (T, error) {
	var zero T
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return zero, fmt.Errorf("hydrate: %w", err)
	}
	if ctx.Source == "" {
		ctx.Source = path
	}
	return d.DecodeBytes(ctx, data)
}

// ParsePayload parses a YAML or JSON mapping. Non-string keys, such as
// period numbers, are turned into strings.
func ParsePayload(data []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	payload, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse payload: top level must be a mapping, found %T", raw)
	}
	return payload, nil
}

// normalize deep-copies maps and slices, turning map[any]any into
// map[string]any.
func normalize(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[key] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

// LowerKeys is a pre-hook that lowercases every key of the top-level
// mapping and of nested mappings, so files may use MF6 uppercase names.
func LowerKeys(_ Context, payload map[string]any) (map[string]any, error) {
	out, _ := lowerKeys(payload).(map[string]any)
	return out, nil
}

func lowerKeys(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[strings.ToLower(key)] = lowerKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = lowerKeys(item)
		}
		return out
	}
	return v
}
