package shared

// DomainError is an error with a stable machine-readable code. The HTTP
// layer maps codes to statuses; the message is safe to show to clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError from a code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared across aggregates. Aggregate-specific failures
// use NewDomainError with their own codes at the call site.
var (
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrEmptyCart       = NewDomainError("EMPTY_CART", "Cart has no items")
	ErrPaymentDeclined = NewDomainError("PAYMENT_DECLINED", "Payment was declined")
)
