package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	mfdata "github.com/goliatone/go-mfdata"
	"github.com/goliatone/go-mfdata/structure"
)

// ErrETagMismatch marks a Mutate whose expected ETag no longer matches the
// stored one.
var ErrETagMismatch = errors.New("state: etag mismatch")

// ErrNotFound marks a Resolve for a ref with no stored text.
var ErrNotFound = errors.New("state: not found")

// Ref identifies one package file of one model.
type Ref struct {
	Model   string
	Package string
}

// Identifier returns the storage key model/package, lowercased.
func (r Ref) Identifier() (string, error) {
	model := strings.ToLower(strings.TrimSpace(r.Model))
	pkg := strings.ToLower(strings.TrimSpace(r.Package))
	if model == "" {
		return "", fmt.Errorf("state: model is required")
	}
	if pkg == "" {
		return "", fmt.Errorf("state: package is required")
	}
	if strings.Contains(model, "/") || strings.Contains(pkg, "/") {
		return "", fmt.Errorf("state: ref %q/%q must not contain '/'", r.Model, r.Package)
	}
	return model + "/" + pkg, nil
}

// Meta is storage metadata kept alongside each value.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one value per ref.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (value T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, value T, meta Meta) (Meta, error)
}

// Mutator edits a package in place.
type Mutator func(*mfdata.Package) error

// Resolver turns stored package text into packages and back.
type Resolver struct {
	Store Store[string]
	// Options are passed to every package built by the resolver.
	Options []mfdata.Option
	// Definition looks up the definition for Ref.Package. Defaults to the
	// bundled definitions.
	Definition func(name string) (*structure.Definition, error)
	// Now stamps Meta.UpdatedAt. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (r Resolver) check(ref Ref) error {
	if r.Store == nil {
		return fmt.Errorf("state: store is required")
	}
	_, err := ref.Identifier()
	return err
}

func (r Resolver) newPackage(name string) (*mfdata.Package, error) {
	lookup := r.Definition
	if lookup == nil {
		lookup = structure.Embedded
	}
	def, err := lookup(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("state: definition %q: %w", name, err)
	}
	return mfdata.NewPackage(def, r.Options...)
}

func (r Resolver) parse(name, text string) (*mfdata.Package, error) {
	pkg, err := r.newPackage(name)
	if err != nil {
		return nil, err
	}
	if err := pkg.Load(strings.NewReader(text)); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Resolve loads the stored text for ref and parses it.
func (r Resolver) Resolve(ctx context.Context, ref Ref) (*mfdata.Package, Meta, error) {
	if err := r.check(ref); err != nil {
		return nil, Meta{}, err
	}
	text, meta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %s/%s: %w", ref.Model, ref.Package, err)
	}
	if !ok {
		return nil, Meta{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ref.Model, ref.Package)
	}
	pkg, err := r.parse(ref.Package, text)
	if err != nil {
		return nil, meta, fmt.Errorf("state: parse %s/%s: %w", ref.Model, ref.Package, err)
	}
	return pkg, meta, nil
}

// Mutate loads the package for ref, or starts an empty one, applies fn and
// saves the rendered result. A non-empty meta.ETag must match the stored
// ETag. The rendered text is parsed again before saving, so edits that do
// not survive a round trip are rejected without touching the store.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (*mfdata.Package, Meta, error) {
	if err := r.check(ref); err != nil {
		return nil, Meta{}, err
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	text, loaded, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %s/%s: %w", ref.Model, ref.Package, err)
	}
	if !ok {
		text, loaded = "", Meta{}
	}
	if meta.ETag != "" && loaded.ETag != "" && meta.ETag != loaded.ETag {
		return nil, loaded, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loaded.ETag)
	}

	pkg, err := r.parse(ref.Package, text)
	if err != nil {
		return nil, loaded, fmt.Errorf("state: parse %s/%s: %w", ref.Model, ref.Package, err)
	}
	if err := fn(pkg); err != nil {
		return nil, loaded, err
	}
	rendered := pkg.String()
	if _, err := r.parse(ref.Package, rendered); err != nil {
		return nil, loaded, fmt.Errorf("state: rendered %s/%s does not reload: %w", ref.Model, ref.Package, err)
	}

	next := mergeMeta(loaded, meta)
	next.SnapshotID = uuid.NewString()
	next.ETag = ETag(rendered)
	next.UpdatedAt = r.now()
	saved, err := r.Store.Save(ctx, ref, rendered, next)
	if err != nil {
		return nil, loaded, fmt.Errorf("state: save %s/%s: %w", ref.Model, ref.Package, err)
	}
	return pkg, saved, nil
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// ETag returns the content hash used for text.
func ETag(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
