// Package apperror defines the typed error values the stores and engines
// return for expected failure conditions. Handlers translate them to HTTP
// status codes; nothing in this package knows about HTTP.
//
// "Zero rows" on a read is not an error anywhere in the system — lookups
// report absence as a nil result. NotFoundError is reserved for operations
// that require the entity to exist (consuming stock of a missing product,
// updating a missing article).
package apperror

import "fmt"

// NotFoundError reports that an operation's target entity does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConstraintViolationError reports a unique-key collision, e.g. upserting an
// article whose identification already belongs to a different article.
type ConstraintViolationError struct {
	Field string
	Value any
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s %v already in use", e.Field, e.Value)
}

// ReferentialIntegrityError reports a composition entry pointing at an
// article that does not exist. The transaction that detected it has been
// rolled back in full.
type ReferentialIntegrityError struct {
	ArticleID uint
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("referenced article %d does not exist", e.ArticleID)
}

// ValidationError reports malformed input detected before touching the store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StorageError wraps an I/O, connection or transaction-conflict failure from
// the underlying store, annotated with the operation that hit it. Conflicting
// transactions surface here; the whole operation is safe to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage annotates err with the operation name, passing nil through.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
