package inspector

// layout is one candidate text layout for a category: a name for logs and
// tests, and an extractor that reports whether the layout matched.
type layout[T any] struct {
	name    string
	extract func(text string) (T, bool)
}

// firstMatch tries layouts in order and returns the value of the first one
// that matches. Later layouts are fallbacks and are never merged with
// earlier ones.
func firstMatch[T any](text string, layouts []layout[T]) (T, string, bool) {
	for _, l := range layouts {
		if v, ok := l.extract(text); ok {
			return v, l.name, true
		}
	}
	var zero T
	return zero, "", false
}
