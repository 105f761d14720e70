package intake

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// CVRequest is the raw CV-download form submission.
type CVRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	Consent bool   `json:"consent"`
	// Website is a hidden honeypot field; legitimate users never fill it.
	Website string `json:"website"`
}

const maxPurposeLength = 500

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStrip   = regexp.MustCompile(`[^\d+]`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
	digitOnly    = regexp.MustCompile(`\d`)

	suspiciousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)data:text/html`),
		regexp.MustCompile(`(?is)<iframe.*?>.*?</iframe>`),
	}
)

// ValidateCVRequest applies the intake rules in order, failing fast on
// the first violation, and returns the normalized submission. Pure
// function: no side effects.
func ValidateCVRequest(req CVRequest) (CVRequest, error) {
	// 1. Honeypot: any value means an automated submission.
	if strings.TrimSpace(req.Website) != "" {
		return CVRequest{}, ErrSpamDetected
	}

	// 2. Name. The limit counts characters, not bytes.
	req.Name = strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(req.Name) < 2 {
		return CVRequest{}, errNameTooShort
	}

	// 3. Email.
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return CVRequest{}, errEmailRequired
	}
	if !emailPattern.MatchString(req.Email) {
		return CVRequest{}, errInvalidEmail
	}

	// 4. Phone: strip separators, then check digit count and shape.
	if strings.TrimSpace(req.Phone) == "" {
		return CVRequest{}, errPhoneRequired
	}
	cleaned := phoneStrip.ReplaceAllString(req.Phone, "")
	digits := len(digitOnly.FindAllString(cleaned, -1))
	if digits < 10 || digits > 15 {
		return CVRequest{}, errInvalidPhone
	}
	if !phonePattern.MatchString(cleaned) {
		return CVRequest{}, errInvalidPhone
	}
	req.Phone = cleaned

	// 5. Purpose.
	req.Company = strings.TrimSpace(req.Company)
	req.Role = strings.TrimSpace(req.Role)
	req.Purpose = strings.TrimSpace(req.Purpose)
	if utf8.RuneCountInString(req.Purpose) > maxPurposeLength {
		return CVRequest{}, errPurposeTooLong
	}

	// 6. Consent must be explicit.
	if !req.Consent {
		return CVRequest{}, ErrConsentRequired
	}

	// 7. Cross-field scan for markup that downstream templates would
	// otherwise interpolate verbatim.
	allText := strings.Join([]string{req.Name, req.Email, req.Phone, req.Company, req.Role, req.Purpose}, " ")
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(allText) {
			return CVRequest{}, ErrSuspiciousContent
		}
	}

	return req, nil
}
