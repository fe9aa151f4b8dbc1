package dto

import "net/http"

// Error codes surfaced by the API. These mirror the domain error taxonomy;
// handlers pass codes through unchanged so clients can switch on them.

// General error codes
const (
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInvalidState  = "INVALID_STATE"
	ErrCodeLocked        = "LOCKED"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
)

// Accounting error codes
const (
	ErrCodeUnbalancedVoucher = "UNBALANCED_VOUCHER"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
)

// Sales error codes
const (
	ErrCodeApprovalRequired    = "APPROVAL_REQUIRED"
	ErrCodePolicyViolation     = "POLICY_VIOLATION"
	ErrCodeCreditLimitExceeded = "CREDIT_LIMIT_EXCEEDED"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeExpiredBatch        = "EXPIRED_BATCH"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes absent
// from the table are client errors and answer 400.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeConfiguration: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeLocked:        http.StatusLocked,

	// Price/discount overrides need a privileged approver
	ErrCodeApprovalRequired: http.StatusForbidden,
	ErrCodePolicyViolation:  http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
