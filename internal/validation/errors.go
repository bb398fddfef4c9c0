package validation

// Errors collects validation failures per field. Every violated rule's
// message is kept, not just the first one.
type Errors map[string][]string

// Add appends a failure message for the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether at least one field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}
