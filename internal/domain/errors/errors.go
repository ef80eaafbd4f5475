package errors

import (
	"net/http"

	"ciquest/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"電子郵件或密碼錯誤",
		"",
	)

	ErrTokenRefreshFailed = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_REFRESH_FAILED",
		"無效或已過期的重新整理權杖",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"尚未登入",
		"",
	)

	// Coupon-related errors
	ErrCouponAlreadyUsed = NewBaseError(
		http.StatusBadRequest,
		"COUPON_ALREADY_USED",
		"優惠券已使用",
		"",
	)

	ErrCouponNotOwned = NewBaseError(
		http.StatusNotFound,
		"COUPON_NOT_OWNED",
		"使用者未持有此優惠券",
		"",
	)

	// Storage-related errors
	ErrStorageUnavailable = NewBaseError(
		http.StatusInternalServerError,
		"STORAGE_UNAVAILABLE",
		"安全儲存空間無法使用",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"輸入資料驗證失敗",
		"",
	)

	// General errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"找不到該資源",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系統內部錯誤",
		"",
	)
)

// APIResponseError represents a non-2xx response from the remote API,
// carrying the server's detail message. It implements the AppError
// interface.
type APIResponseError struct {
	status int
	detail string
}

// NewAPIResponseError creates an error from a remote API failure response
func NewAPIResponseError(status int, detail string) *APIResponseError {
	return &APIResponseError{
		status: status,
		detail: detail,
	}
}

// Error implements the error interface
func (e *APIResponseError) Error() string {
	if e.detail != "" {
		return e.detail
	}

	return http.StatusText(e.status)
}

// HTTPCode returns the HTTP status code
func (e *APIResponseError) HTTPCode() int {
	return e.status
}

// ErrorCode returns the business error code
func (e *APIResponseError) ErrorCode() string {
	return "API_REQUEST_FAILED"
}

// Message returns the user-friendly error message
func (e *APIResponseError) Message() string {
	return "遠端 API 請求失敗"
}

// Details returns detailed error information
func (e *APIResponseError) Details() string {
	return e.detail
}
