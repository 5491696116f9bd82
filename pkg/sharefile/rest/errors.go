package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sharefile api: status=%d code=%s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("sharefile api: status=%d body=%s", e.StatusCode, string(e.Body))
}

// Retryable reports whether the failure is transient.
func (e *APIError) Retryable() bool {
	return retryableStatus(e.StatusCode)
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		(status >= 500 && status <= 599)
}

// apiErrorBody is the OData error envelope:
//
//	{"code":"NotFound","message":{"lang":"en-US","value":"Item not found"}}
type apiErrorBody struct {
	Code    string `json:"code"`
	Message struct {
		Value string `json:"value"`
	} `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}

	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		e.Code = envelope.Code
		e.Message = envelope.Message.Value
	}
	return e
}
