package model

// Param is a resolved field value.
type Param[T any] struct {
	Value T
	// Implied is true when the value came from a default rather than the document.
	Implied bool
	// Set is false when the field was absent and has no default.
	Set bool
}

// Given returns a param holding a value taken from the document.
func Given[T any](v T) Param[T] {
	return Param[T]{Value: v, Set: true}
}

// Implied returns a param holding a default value.
func Implied[T any](v T) Param[T] {
	return Param[T]{Value: v, Implied: true, Set: true}
}

// Unset returns an absent param with no default.
func Unset[T any]() Param[T] {
	return Param[T]{}
}

// IsGiven reports whether the value came from the document.
func (p Param[T]) IsGiven() bool {
	return p.Set && !p.Implied
}

// Or returns the value when set, def otherwise.
func (p Param[T]) Or(def T) T {
	if !p.Set {
		return def
	}
	return p.Value
}

// resolve uses the document value when present and the default otherwise.
func resolve[T any](v *T, def T) Param[T] {
	if v != nil {
		return Given(*v)
	}
	return Implied(def)
}

// resolveFunc is resolve with a default computed from already-resolved
// siblings. A default function returning ok=false leaves the field unset.
func resolveFunc[T any](v *T, def func() (T, bool)) Param[T] {
	if v != nil {
		return Given(*v)
	}
	if d, ok := def(); ok {
		return Implied(d)
	}
	return Unset[T]()
}

// optional uses the document value when present and leaves the field unset otherwise.
func optional[T any](v *T) Param[T] {
	if v != nil {
		return Given(*v)
	}
	return Unset[T]()
}

// required wraps a mandatory scalar; the empty value means absent.
func required(v string) Param[string] {
	if v == "" {
		return Unset[string]()
	}
	return Given(v)
}
