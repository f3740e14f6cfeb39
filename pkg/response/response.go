package response

import "time"

// APIResponseCode is the numeric code carried in every envelope.
type APIResponseCode int

const (
	APIResponseCodeOK           APIResponseCode = 0
	APIResponseCodeBadRequest   APIResponseCode = 40000
	APIResponseCodeUnauthorized APIResponseCode = 40100
	APIResponseCodeNotFound     APIResponseCode = 40400
	APIResponseCodeConflict     APIResponseCode = 40900
	APIResponseCodeError        APIResponseCode = 50000
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:           "ok",
	APIResponseCodeBadRequest:   "bad request",
	APIResponseCodeUnauthorized: "unauthorized",
	APIResponseCodeNotFound:     "not found",
	APIResponseCodeConflict:     "conflict",
	APIResponseCodeError:        "unexpected error",
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}

// ErrorCode is the stable, machine readable error identifier.
type ErrorCode string

const (
	ErrorCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrorCodeInvalidCard      ErrorCode = "INVALID_CREDIT_CARD"
	ErrorCodeInvalidStatus    ErrorCode = "INVALID_PAYMENT_STATUS"
	ErrorCodeNotFound         ErrorCode = "PAYMENT_NOT_FOUND"
	ErrorCodeProcessing       ErrorCode = "PROCESSING_ERROR"
	ErrorCodeDuplicateRequest ErrorCode = "DUPLICATE_REQUEST"
	ErrorCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternal         ErrorCode = "INTERNAL_SERVER_ERROR"
)

// ErrorDetail is the data of an error envelope.
type ErrorDetail struct {
	Error     ErrorCode         `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Fail builds an error envelope around an ErrorDetail.
func Fail(code APIResponseCode, errCode ErrorCode, message string, fields map[string]string) *APIResponse[*ErrorDetail] {
	return ErrorT(code, &ErrorDetail{
		Error:     errCode,
		Message:   message,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	})
}
