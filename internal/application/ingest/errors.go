package ingest

import (
	"errors"
	"fmt"
)

// Per-record coercion errors. They are counted and never abort a batch.
var (
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidStock  = errors.New("invalid stock quantity")
	ErrInvalidRecord = errors.New("record is not an object")
)

// ExtractionError a payload that could not be parsed at all. The batch is treated as empty.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InfraError a storage failure that invalidates the whole batch (savepoint, begin, commit).
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error { return e.Err }

// IsInfra reports whether err (or anything it wraps) is an InfraError.
func IsInfra(err error) bool {
	var ie *InfraError
	return errors.As(err, &ie)
}
