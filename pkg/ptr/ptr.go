package ptr

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value behind p or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// NilIfEmpty returns nil for an empty string.
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
