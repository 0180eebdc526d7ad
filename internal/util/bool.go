package util

// FalseIfNil returns the value of b or false if b is nil.
func FalseIfNil(b *bool) bool {
	if b == nil {
		return false
	}

	return *b
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
