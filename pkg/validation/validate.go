package validation

import (
	"regexp"
	"strings"

	"elele/pkg/models"
)

// Field error codes. The UI keys inline error texts off these.
const (
	CodeEmptyField   = "EmptyField"
	CodeInvalidPhone = "InvalidPhone"
	CodeInvalidEmail = "InvalidEmail"
	CodeInvalidRole  = "InvalidRole"
)

// FieldError describes a single validation failure on a draft field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// Turkish mobile numbers: exactly 11 digits starting with 05.
	phoneRe = regexp.MustCompile(`^05\d{9}$`)
	// local@domain.tld shape: no whitespace, single @, dot in domain.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateDraft checks every field of a submission and returns all failures
// together so the UI can display every problem at once. A nil result means
// the draft may be admitted to the feed.
func ValidateDraft(d models.Draft) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(d.FullName) == "" {
		errs = append(errs, FieldError{
			Field:   "fullName",
			Code:    CodeEmptyField,
			Message: "İsim Soyisim zorunludur.",
		})
	}
	if !phoneRe.MatchString(stripSpaces(d.Phone)) {
		errs = append(errs, FieldError{
			Field:   "phone",
			Code:    CodeInvalidPhone,
			Message: "Geçerli bir Türkiye mobil numarası giriniz (05xx...).",
		})
	}
	if !emailRe.MatchString(d.Email) {
		errs = append(errs, FieldError{
			Field:   "email",
			Code:    CodeInvalidEmail,
			Message: "Geçerli bir e-posta adresi giriniz.",
		})
	}
	if strings.TrimSpace(d.Message) == "" {
		errs = append(errs, FieldError{
			Field:   "message",
			Code:    CodeEmptyField,
			Message: "Mesaj alanı boş bırakılamaz.",
		})
	}
	if !d.Role.Valid() {
		errs = append(errs, FieldError{
			Field:   "role",
			Code:    CodeInvalidRole,
			Message: "Geçersiz rol seçimi.",
		})
	}
	return errs
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
