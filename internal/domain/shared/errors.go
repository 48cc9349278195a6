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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrNotConfigured = NewDomainError("NOT_CONFIGURED", "Vendor platform credentials are not configured")
	ErrVendorError   = NewDomainError("VENDOR_ERROR", "Vendor platform rejected the request")
	ErrUploadFailed  = NewDomainError("UPLOAD_FAILED", "File upload to vendor platform failed")
)
