package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the request collides with existing state
// (duplicate codes, sequence races, state transitions that already happened).
var ErrConflict = errors.New("conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// It is a conflict, so errors.Is(err, ErrConflict) also holds for wrapped duplicates.
var ErrDuplicate = fmt.Errorf("resource already exists: %w", ErrConflict)

// ErrStorage indicates a failure of the underlying store (connection loss, aborted transaction).
// Writes that fail with ErrStorage have been rolled back and may be retried.
var ErrStorage = errors.New("storage error")

// NotFoundError names the resource that could not be resolved.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound is a shorthand for &NotFoundError{...}.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// MissingFieldError reports a required field that was left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrValidation }

// InsufficientLinesError is returned when an entry has fewer than the minimum number of postings.
type InsufficientLinesError struct {
	Got int
	Min int
}

func (e *InsufficientLinesError) Error() string {
	return fmt.Sprintf("entry needs at least %d posting lines, got %d", e.Min, e.Got)
}

func (e *InsufficientLinesError) Unwrap() error { return ErrValidation }

// EmptyLineError is returned when a posting line has neither a positive debit nor a positive credit.
type EmptyLineError struct {
	Line      int
	AccountID string
}

func (e *EmptyLineError) Error() string {
	return fmt.Sprintf("posting line %d (account %s) has no positive debit or credit", e.Line, e.AccountID)
}

func (e *EmptyLineError) Unwrap() error { return ErrValidation }

// InvalidAmountError is returned for amounts the ledger cannot store: negative,
// too precise or too large. Line is zero when an entry total is at fault.
type InvalidAmountError struct {
	Line   int
	Amount decimal.Decimal
	Reason string
}

func (e *InvalidAmountError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("entry total %s: %s", e.Amount.String(), e.Reason)
	}
	return fmt.Sprintf("posting line %d: invalid amount %s: %s", e.Line, e.Amount.String(), e.Reason)
}

func (e *InvalidAmountError) Unwrap() error { return ErrValidation }

// UnknownAccountError names the account id that does not resolve to an active account.
type UnknownAccountError struct {
	AccountID string
	Inactive  bool
}

func (e *UnknownAccountError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("account %s is inactive", e.AccountID)
	}
	return fmt.Sprintf("account %s does not exist", e.AccountID)
}

func (e *UnknownAccountError) Unwrap() error { return ErrValidation }

// UnknownCompanyError is returned when an entry is scoped to a company that does not exist.
type UnknownCompanyError struct {
	CompanyID string
}

func (e *UnknownCompanyError) Error() string {
	return fmt.Sprintf("company %s does not exist", e.CompanyID)
}

func (e *UnknownCompanyError) Unwrap() error { return ErrValidation }

// UnbalancedEntryError carries both totals of an entry whose sides differ beyond tolerance.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry is unbalanced: total debit %s, total credit %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrValidation }

// InvalidParentError is returned when an account's parent cannot be used.
type InvalidParentError struct {
	ParentID string
	Reason   string
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("invalid parent account %s: %s", e.ParentID, e.Reason)
}

func (e *InvalidParentError) Unwrap() error { return ErrValidation }

// InvalidDateRangeError is returned when From is after To.
type InvalidDateRangeError struct {
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	return "invalid date range: " + e.Reason
}

func (e *InvalidDateRangeError) Unwrap() error { return ErrValidation }

// DuplicateCodeError is returned when an account code is already taken.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("account code %q already exists", e.Code)
}

func (e *DuplicateCodeError) Unwrap() error { return ErrDuplicate }

// ReferencedAccountError is returned when deleting an account that postings still reference.
type ReferencedAccountError struct {
	AccountID string
}

func (e *ReferencedAccountError) Error() string {
	return fmt.Sprintf("account %s is referenced by existing postings or child accounts; deactivate it instead", e.AccountID)
}

func (e *ReferencedAccountError) Unwrap() error { return ErrConflict }

// SequenceConflictError is returned when two writers race for the same sequence number.
// The write was rolled back and can be retried.
type SequenceConflictError struct {
	Cause error
}

func (e *SequenceConflictError) Error() string {
	if e.Cause == nil {
		return "sequence number conflict"
	}
	return "sequence number conflict: " + e.Cause.Error()
}

func (e *SequenceConflictError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Cause}
}

// EntryVoidedError is returned when voiding an entry that is already voided.
type EntryVoidedError struct {
	EntryID string
}

func (e *EntryVoidedError) Error() string {
	return fmt.Sprintf("journal entry %s is already voided", e.EntryID)
}

func (e *EntryVoidedError) Unwrap() error { return ErrConflict }

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Cause} }

// NewStorageError wraps err unless it is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Cause: err}
}
