// internal/app/system/formspec/validate.go
package formspec

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Messages returned by ValidateField.
const (
	MsgRequired     = "This field is required"
	MsgEmail        = "Please enter a valid email address"
	MsgURL          = "Please enter a valid URL"
	MsgPattern      = "Invalid format"
	MsgWeakPassword = "Password must contain uppercase and lowercase letters and numbers"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var patterns sync.Map // pattern -> *regexp.Regexp or error

func compiled(pattern string) (*regexp.Regexp, error) {
	if v, ok := patterns.Load(pattern); ok {
		if re, ok := v.(*regexp.Regexp); ok {
			return re, nil
		}
		return nil, v.(error)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		patterns.Store(pattern, err)
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}

// ValidateField checks value against the field's rules and returns the first
// failure message, or "".
//
// Rules run in this order: required, then (only for non-empty values) email,
// url, pattern, minimum and maximum length, numeric minimum and maximum, and
// password strength. Values are strings, numbers, bools, []string or nil.
func ValidateField(f Field, value any) string {
	r := f.Rules
	if r == nil {
		return ""
	}

	if r.Required && missing(value) {
		return MsgRequired
	}
	if blank(value) {
		return ""
	}

	s, isString := value.(string)

	if r.Email && isString && !emailRe.MatchString(s) {
		return MsgEmail
	}
	if r.URL && isString && !validURL(s) {
		return MsgURL
	}
	if r.Pattern != "" && isString {
		re, err := compiled(r.Pattern)
		if err != nil || !re.MatchString(s) {
			return MsgPattern
		}
	}
	if isString {
		n := utf8.RuneCountInString(s)
		if r.MinLength > 0 && n < r.MinLength {
			return fmt.Sprintf("Minimum length is %d characters", r.MinLength)
		}
		if r.MaxLength > 0 && n > r.MaxLength {
			return fmt.Sprintf("Maximum length is %d characters", r.MaxLength)
		}
	}
	if num, ok := number(value); ok {
		if r.Min != nil && num < *r.Min {
			return "Minimum value is " + formatNumber(*r.Min)
		}
		if r.Max != nil && num > *r.Max {
			return "Maximum value is " + formatNumber(*r.Max)
		}
	}
	if r.PasswordStrength && isString && !strongPassword(s) {
		return MsgWeakPassword
	}
	return ""
}

// ValidateForm validates every field and returns name -> message for the
// failures. Absent values are validated as nil.
func ValidateForm(fields []Field, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		if msg := ValidateField(f, values[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// missing is the required check: nil, "" or an empty selection.
func missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// blank values skip the remaining rules.
func blank(v any) bool {
	if missing(v) {
		return true
	}
	switch t := v.(type) {
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func strongPassword(s string) bool {
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
