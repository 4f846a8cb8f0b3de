package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the
// resource (e.g. an idempotency key reused with different parameters, or a
// payment method still referenced by an active AutoPay schedule).
var ErrConflict = errors.New("resource conflict")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrPolicyViolation indicates a business policy rejected the requested value
// (e.g. a payout delay below the organization's minimum).
var ErrPolicyViolation = errors.New("policy violation")

// ErrNotActive indicates the connected account is not fully active yet.
var ErrNotActive = errors.New("connected account not active")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")
