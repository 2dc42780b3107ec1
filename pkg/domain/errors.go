// Package domain defines the CRM aggregates (customers, leads, opportunities and
// sales representatives), their value objects, and the storage-agnostic
// repository and unit-of-work contracts used by persistence backends.
package domain

import (
	"errors"
	"fmt"

	"crmcore/pkg/filter"
)

// Code classifies a failure so callers can translate it without string matching.
type Code string

const (
	CodeValidation       Code = "validation"
	CodeInvariant        Code = "invariant_violation"
	CodeForbidden        Code = "forbidden"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeTransactionState Code = "transaction_state"
	CodeInvalidFilter    Code = "invalid_filter"
	CodeStorage          Code = "storage"
)

// Error is the canonical domain and persistence error. Two errors are
// considered the same by errors.Is when code and reason match, so sentinels
// keep matching after Errorf adds details.
type Error struct {
	Code    Code
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason
}

// Is reports whether target is an *Error with the same code and reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

func newError(code Code, reason string) *Error {
	return &Error{Code: code, Reason: reason}
}

// Errorf derives an error from sentinel with a formatted detail message.
func Errorf(sentinel *Error, format string, args ...any) error {
	return &Error{
		Code:    sentinel.Code,
		Reason:  sentinel.Reason,
		Message: sentinel.Reason + ": " + fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the error code when err wraps an *Error. Filter resolution
// errors map to CodeInvalidFilter.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, filter.ErrInvalidField) || errors.Is(err, filter.ErrInvalidType) {
		return CodeInvalidFilter
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Format and constraint violations.
var (
	ErrMissingValue             = newError(CodeValidation, "value is required")
	ErrInvalidEmail             = newError(CodeValidation, "invalid email address")
	ErrInvalidPhone             = newError(CodeValidation, "invalid phone number")
	ErrInvalidContactMethodType = newError(CodeValidation, "invalid contact method type")
	ErrInvalidCountry           = newError(CodeValidation, "invalid country")
	ErrInvalidLanguage          = newError(CodeValidation, "invalid language")
	ErrInvalidCurrency          = newError(CodeValidation, "invalid currency")
	ErrInvalidIndustry          = newError(CodeValidation, "invalid industry")
	ErrInvalidCompanySize       = newError(CodeValidation, "invalid company size")
	ErrInvalidLegalForm         = newError(CodeValidation, "invalid legal form")
	ErrInvalidAcquisitionSource = newError(CodeValidation, "invalid acquisition source")
	ErrInvalidStage             = newError(CodeValidation, "invalid opportunity stage")
	ErrInvalidPriority          = newError(CodeValidation, "invalid priority")
	ErrInvalidCustomerStatus    = newError(CodeValidation, "invalid customer status")
	ErrAmountNotPositive        = newError(CodeValidation, "amount must be greater than zero")
	ErrDuplicateContactPerson   = newError(CodeValidation, "contact person already exists")
	ErrDuplicateContactMethod   = newError(CodeValidation, "duplicate contact method")
)

// Status transition and invariant violations.
var (
	ErrAlreadyConverted                 = newError(CodeInvariant, "customer already converted")
	ErrAlreadyArchived                  = newError(CodeInvariant, "customer already archived")
	ErrCannotConvertArchived            = newError(CodeInvariant, "cannot convert archived customer")
	ErrNotEnoughContactPersons          = newError(CodeInvariant, "not enough contact persons")
	ErrNotEnoughPreferredContactMethods = newError(CodeInvariant, "not enough preferred contact methods")
	ErrSalesmanAlreadyAssigned          = newError(CodeConflict, "salesman already assigned to lead")
	ErrContactPersonNotFound            = newError(CodeNotFound, "contact person not found")
)

// Authorization violations.
var (
	ErrOnlyRelationManager     = newError(CodeForbidden, "only relation manager can modify customer")
	ErrOnlyOwnerCanModify      = newError(CodeForbidden, "only owner can modify")
	ErrOnlyOwnerCanEditNotes   = newError(CodeForbidden, "only owner can edit notes")
	ErrOnlyOwnerCanModifyOffer = newError(CodeForbidden, "only owner can modify offer")
	ErrUnauthorizedOwnerChange = newError(CodeForbidden, "unauthorized lead owner change")
	ErrOnlySelfCanModify       = newError(CodeForbidden, "sales representative can only be modified by themselves")
)

// Infrastructure violations raised by repositories and units of work.
var (
	ErrTransactionActive   = newError(CodeTransactionState, "transaction already active")
	ErrNoActiveTransaction = newError(CodeTransactionState, "no active transaction")
	ErrAlreadyExists       = newError(CodeConflict, "object already exists")
	ErrNotFound            = newError(CodeNotFound, "object not found")
	ErrReferenceNotFound   = newError(CodeStorage, "referenced object not found")
	ErrStorage             = newError(CodeStorage, "storage failure")
)
