// Package state persists rendered package files and applies edits to them.
//
// A Store[T] loads and saves one value per Ref, where a Ref names a model
// and one of its packages. The Resolver stores package text: it rebuilds a
// *mfdata.Package from the stored file, lets callers edit it, renders it
// back and saves the result under a fresh snapshot ID.
//
//	Store -> Resolver.Resolve -> *mfdata.Package
//	Resolver.Mutate: Load -> edit -> render -> reload check -> Save
//
// Meta.ETag carries a content hash of the stored text and is used for
// optimistic concurrency in Mutate.
package state
