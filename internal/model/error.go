package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidRoom        = "INVALID_ROOM"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderLineNotFound  = "ORDER_LINE_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeSlotEndBeforeStart = "SLOT_END_BEFORE_START"
	ErrCodeSlotTooShort       = "SLOT_TOO_SHORT"
	ErrCodeSlotTooLong        = "SLOT_TOO_LONG"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidRoom       = NewDomainError(ErrCodeInvalidRoom, "Room number must be exactly 4 digits")
	ErrSessionNotFound   = NewDomainError(ErrCodeSessionNotFound, "Room is not signed in")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderLineNotFound = NewDomainError(ErrCodeOrderLineNotFound, "Order line not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity is out of range")

	ErrSlotEndBeforeStart = NewDomainError(ErrCodeSlotEndBeforeStart, "end time must be after start time")
	ErrSlotTooShort       = NewDomainError(ErrCodeSlotTooShort, "time slot must be at least 30 minutes")
	ErrSlotTooLong        = NewDomainError(ErrCodeSlotTooLong, "time slot cannot exceed 5 hours")
)
