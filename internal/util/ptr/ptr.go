// Package ptr provides helper functions for optional values that distinguish
// "unset" from the zero value.
package ptr

// String returns a pointer to the given string value.
func String(s string) *string { return &s }

// Deref returns the pointed-to value or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Clone returns a pointer to a copy of *p, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
