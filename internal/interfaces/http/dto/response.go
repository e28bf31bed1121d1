package dto

import "net/http"

// ErrorInfo carries a machine-readable code and human-readable message
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the standard API response wrapper
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response wrapping the data
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message}}
}

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Unlisted codes fall back to 422, treating them as business rule
// violations.
var domainCodeHTTPStatus = map[string]int{
	"NOT_FOUND":                   http.StatusNotFound,
	"ALREADY_EXISTS":              http.StatusConflict,
	"DUPLICATE_INVOICE":           http.StatusConflict,
	"CONCURRENCY_CONFLICT":        http.StatusConflict,
	"VALIDATION":                  http.StatusBadRequest,
	"INVALID_QUANTITY":            http.StatusBadRequest,
	"INVALID_PRICE":               http.StatusBadRequest,
	"INVALID_AMOUNT":              http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":        http.StatusBadRequest,
	"INVALID_SUPPLIER":            http.StatusBadRequest,
	"INVALID_SUPPLIER_NAME":       http.StatusBadRequest,
	"INVALID_MATERIAL":            http.StatusBadRequest,
	"INVALID_MATERIAL_NAME":       http.StatusBadRequest,
	"INVALID_MATERIAL_CODE":       http.StatusBadRequest,
	"INVALID_TAX_ID":              http.StatusBadRequest,
	"INVALID_FRACTIONING":         http.StatusBadRequest,
	"INVALID_INSTALLMENT":         http.StatusBadRequest,
	"INVALID_STATE":               http.StatusUnprocessableEntity,
	"ALREADY_RECEIVED":            http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":          http.StatusUnprocessableEntity,
	"MATERIAL_ALREADY_BOUND":      http.StatusUnprocessableEntity,
	"FRACTIONING_ALREADY_APPLIED": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
