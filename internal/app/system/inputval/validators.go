// internal/app/system/inputval/validators.go
package inputval

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode"

	"github.com/dalemusser/nexa/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

func registerCustom(v *validator.Validate) {
	v.RegisterCustomTypeFunc(optStringValue, OptString{})

	_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsValidHTTPURL(s)
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsCompanyRole(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}

// IsValidEmail accepts a bare RFC 5322 address (no display name), rejecting
// leading, trailing or doubled dots in either part.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	local, domain := s[:at], s[at+1:]
	for _, part := range []string{local, domain} {
		if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// IsValidHTTPURL accepts absolute http and https URLs with a host.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsStrongPassword requires an uppercase letter, a lowercase letter and a
// digit. Length is checked separately with min=.
func IsStrongPassword(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
