// Package ptr converts between optional template fields and plain values.
package ptr

// Bool returns a pointer to the provided value.
func Bool(b bool) *bool {
	return &b
}

// BoolValue returns the value b points to, or def when b is nil.
func BoolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
