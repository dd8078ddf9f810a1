package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. Transport failures against the remote collaborators surface as
// 502: the workflow has already been returned to a safe, retriable state
// by the time the error reaches here.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusBadGateway, "SERVICE_UNAVAILABLE", "remote service unavailable; try again"
	case errors.Is(err, domain.ErrMalformedPayload):
		return http.StatusBadGateway, "MALFORMED_REMOTE_PAYLOAD", "remote service returned an unrecognized payload"
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound, "RUN_NOT_FOUND", "workflow run not found"
	case errors.Is(err, domain.ErrRunClosed):
		return http.StatusGone, "RUN_CLOSED", "workflow run was closed"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_STATE", "operation is not valid in the run's current state"
	case errors.Is(err, domain.ErrPostInFlight):
		return http.StatusConflict, "POST_IN_FLIGHT", "a batch post is in flight; it cannot be canceled"
	case errors.Is(err, domain.ErrQueryTooShort):
		return http.StatusBadRequest, "QUERY_TOO_SHORT", "supplier search query is too short"
	case errors.Is(err, domain.ErrNoBlockingVendor):
		return http.StatusConflict, "NO_BLOCKING_VENDOR", "no blocking vendor remains at the current step"
	case errors.Is(err, domain.ErrEmptyBatch):
		return http.StatusBadRequest, "EMPTY_BATCH", "at least one invoice id is required"
	case errors.Is(err, domain.ErrNotPostable):
		return http.StatusConflict, "NOT_POSTABLE", "no invoices are ready to post"
	case errors.Is(err, domain.ErrInvalidSupplier):
		return http.StatusBadRequest, "INVALID_SUPPLIER", "supplier selection requires both id and name"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error
// response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] %s: %v", requestID, code, err)
	}
	RespondError(c, status, code, msg)
}
