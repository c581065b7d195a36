// Package errors defines the typed errors exchanged between the pipeline,
// the store and the HTTP layer. Parsing and import validation failures are
// recovered locally by their callers; only flush failures propagate upward.
package errors

import (
	"errors"
	"fmt"
)

// UnparseableEntryError marks a raw journal block that lacks the expected
// textual markers. The entry is skipped and the batch continues.
type UnparseableEntryError struct {
	Kind   string
	Reason string
}

func NewUnparseableEntryError(kind, reason string) *UnparseableEntryError {
	return &UnparseableEntryError{Kind: kind, Reason: reason}
}

func (e *UnparseableEntryError) Error() string {
	return fmt.Sprintf("unparseable %s entry: %s", e.Kind, e.Reason)
}

func IsUnparseableEntryError(err error) bool {
	var target *UnparseableEntryError
	return errors.As(err, &target)
}

// ImportFormatError marks an import payload that is not valid JSON or does
// not have the expected top-level shape. Import aborts with no partial merge.
type ImportFormatError struct {
	Reason string
}

func NewImportFormatError(reason string) *ImportFormatError {
	return &ImportFormatError{Reason: reason}
}

func (e *ImportFormatError) Error() string {
	return fmt.Sprintf("invalid import document: %s", e.Reason)
}

func IsImportFormatError(err error) bool {
	var target *ImportFormatError
	return errors.As(err, &target)
}

// CorruptStateError wraps a persisted document that fails to deserialize.
// The store logs it and starts from an empty default instead of failing
// startup.
type CorruptStateError struct {
	Cause error
}

func NewCorruptStateError(cause error) *CorruptStateError {
	return &CorruptStateError{Cause: cause}
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt persisted state: %v", e.Cause)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Cause
}

func IsCorruptStateError(err error) bool {
	var target *CorruptStateError
	return errors.As(err, &target)
}

// FlushError wraps a failed persistence write. The in-memory state is kept;
// the next successful flush persists the accumulated changes.
type FlushError struct {
	Cause error
}

func NewFlushError(cause error) *FlushError {
	return &FlushError{Cause: cause}
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("failed to flush store: %v", e.Cause)
}

func (e *FlushError) Unwrap() error {
	return e.Cause
}

func IsFlushError(err error) bool {
	var target *FlushError
	return errors.As(err, &target)
}

// PartitionNotFoundError marks a read against a partition with no data.
type PartitionNotFoundError struct {
	Partition string
}

func NewPartitionNotFoundError(partition string) *PartitionNotFoundError {
	return &PartitionNotFoundError{Partition: partition}
}

func (e *PartitionNotFoundError) Error() string {
	return fmt.Sprintf("partition %q not found", e.Partition)
}

func IsPartitionNotFoundError(err error) bool {
	var target *PartitionNotFoundError
	return errors.As(err, &target)
}
