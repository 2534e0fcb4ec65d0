package domain

import "errors"

// ErrInvalidDocument is the uniform failure marker of the document parser.
// Malformed text and a structurally absent "states" section both collapse
// into this error; callers must not need to distinguish them.
var ErrInvalidDocument = errors.New("invalid workflow document")

// ErrPersonaNotFound is returned when a persona ID cannot be found in the store.
var ErrPersonaNotFound = errors.New("persona not found")

// ErrRevisionConflict is returned when a document write carries a stale
// revision token (a newer write already landed).
var ErrRevisionConflict = errors.New("document revision conflict")
