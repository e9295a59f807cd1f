package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist:
// an export id unknown to the store, or a target/label id unknown to a group.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. an empty record list, a placeholder export).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrEmptyCollection is returned by the serializer when the collection holds
// zero groups. Callers render a placeholder instead of calling the formatter.
var ErrEmptyCollection = errors.New("no groups")

// ErrNotExportable is returned when the rendered text is a placeholder or an
// error message rather than a real configuration document.
var ErrNotExportable = errors.New("rendered output is not exportable")

// CollaboratorError is returned when the formatting service answered with
// success=false. Message is the service's error text, reported verbatim.
type CollaboratorError struct {
	Message string
}

func (e *CollaboratorError) Error() string {
	return e.Message
}
