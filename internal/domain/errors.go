package domain

import "errors"

var (
	ErrServiceUnavailable = errors.New("remote service unavailable")
	ErrMalformedPayload   = errors.New("malformed remote payload")
	ErrRunNotFound        = errors.New("workflow run not found")
	ErrRunClosed          = errors.New("workflow run is closed")
	ErrInvalidTransition  = errors.New("illegal workflow state transition")
	ErrPostInFlight       = errors.New("batch post is in flight")
	ErrQueryTooShort      = errors.New("supplier search query too short")
	ErrNoBlockingVendor   = errors.New("no blocking vendor at cursor")
	ErrEmptyBatch         = errors.New("invoice batch is empty")
	ErrNotPostable        = errors.New("batch contains no postable invoices")
	ErrInvalidSupplier    = errors.New("supplier selection is incomplete")
	ErrUnauthorized       = errors.New("unauthorized")
)
