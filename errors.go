package annotext

import "errors"

// Sentinel errors for the annotext package.
var (
	// ErrEmptyArchive is returned when decoding from empty data.
	ErrEmptyArchive = errors.New("annotext: empty archive data")

	// ErrWrongKind is returned when an archive holds a different
	// decoration kind than the one requested.
	ErrWrongKind = errors.New("annotext: archive kind mismatch")
)

// FieldError reports a malformed field encountered during decoding.
// Decoding does not stop on a FieldError; the field falls back to its
// documented default and the error is reported through the diagnostic
// sink.
type FieldError struct {
	Kind  string // decoration kind ("border", "shadow", ...)
	Field string // field key within the archive
}

func (e *FieldError) Error() string {
	return "annotext: malformed field " + e.Kind + "." + e.Field
}
