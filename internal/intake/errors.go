package intake

import "errors"

// ValidationError is a client-facing rejection of a submission. Message
// is returned to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// ErrSpamDetected fires on a non-empty honeypot field. The message is
	// deliberately generic so scrapers learn nothing from the response.
	ErrSpamDetected = &ValidationError{Message: "Invalid request"}

	// ErrSuspiciousContent fires when submitted text matches the markup
	// blocklist. Also deliberately vague.
	ErrSuspiciousContent = &ValidationError{Message: "Invalid characters detected"}

	// ErrConsentRequired fires when the consent flag is not explicitly true.
	ErrConsentRequired = &ValidationError{Message: "Consent is required"}

	errNameTooShort   = &ValidationError{Message: "Name must be at least 2 characters long"}
	errEmailRequired  = &ValidationError{Message: "Email is required"}
	errInvalidEmail   = &ValidationError{Message: "Invalid email format"}
	errPhoneRequired  = &ValidationError{Message: "Phone number is required"}
	errInvalidPhone   = &ValidationError{Message: "Invalid phone number format"}
	errPurposeTooLong = &ValidationError{Message: "Purpose must be less than 500 characters"}
)

// ErrRateLimited is returned when a client IP exceeds its submission
// budget for the current window.
var ErrRateLimited = errors.New("rate limit exceeded")
