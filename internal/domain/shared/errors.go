package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrSourceUnavailable   = NewDomainError("SOURCE_UNAVAILABLE", "Scam source did not respond")
	ErrUnknownSource       = NewDomainError("UNKNOWN_SOURCE", "Unknown scam source requested")
	ErrDeliveryFailed      = NewDomainError("DELIVERY_FAILED", "Message could not be delivered")
	ErrRecipientGone       = NewDomainError("RECIPIENT_GONE", "Recipient no longer reachable")
	ErrCacheUnavailable    = NewDomainError("CACHE_UNAVAILABLE", "Result cache is not reachable")
	ErrInvalidSignature    = NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")
	ErrUpstreamRateLimited = NewDomainError("UPSTREAM_RATE_LIMITED", "Upstream gateway rate limit reached")
)
