package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization means the backing store could not be opened or
	// created. The repository is unusable for the rest of the process.
	ErrInitialization = errors.New("store initialization failed")
	// ErrStorageRead is a backend fault while reading records.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite is a backend fault while writing or deleting records.
	ErrStorageWrite = errors.New("storage write failed")
)

// OpError reports a failed store operation. Kind is one of the sentinel
// errors above and is matched by errors.Is; Err is the backend fault.
type OpError struct {
	Kind error
	Op   string
	Name string
	Err  error
}

func (e *OpError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q: %v: %v", e.Op, e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// InitError wraps err as an initialization failure.
func InitError(op string, err error) error {
	return &OpError{Kind: ErrInitialization, Op: op, Err: err}
}

// ReadError wraps err as a read failure for the named record.
func ReadError(op, name string, err error) error {
	return &OpError{Kind: ErrStorageRead, Op: op, Name: name, Err: err}
}

// WriteError wraps err as a write failure for the named record.
func WriteError(op, name string, err error) error {
	return &OpError{Kind: ErrStorageWrite, Op: op, Name: name, Err: err}
}
