// Package inputval validates decoded request structs with go-playground's
// validator and turns failures into readable, field-keyed messages.
//
// Struct tags:
//
//	Name string `json:"name" validate:"required,min=2,max=100" label:"Name"`
//
// The json tag names the field in error maps (nested paths are dotted, e.g.
// "address.city"); the label tag names it in messages.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string // dotted json path, e.g. "user.email"
	Message string
}

// Result collects all failures from one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// Fields returns field -> first message. rename, when non-nil, maps each
// dotted path to the name the client knows it by.
func (r *Result) Fields(rename func(path string) string) map[string]string {
	out := make(map[string]string)
	if r == nil {
		return out
	}
	for _, e := range r.Errors {
		key := e.Field
		if rename != nil {
			key = rename(key)
		}
		if _, seen := out[key]; !seen {
			out[key] = e.Message
		}
	}
	return out
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		registerCustom(v)
	})
	return v
}

// Validate runs the struct's validate tags. A non-struct or nil input yields
// an empty Result.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return res
	}

	root := reflect.TypeOf(s)
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   trimRoot(fe.Namespace()),
			Message: message(fe, labelFor(root, fe.StructNamespace(), fe.Field())),
		})
	}
	return res
}

// trimRoot drops the leading struct type name from a namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// labelFor walks the Go field path and returns the label tag of the last field.
func labelFor(root reflect.Type, structNS, fallback string) string {
	parts := strings.Split(structNS, ".")
	if len(parts) < 2 {
		return fallback
	}
	t := root
	var field reflect.StructField
	for _, p := range parts[1:] {
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return fallback
		}
		f, ok := t.FieldByName(p)
		if !ok {
			return fallback
		}
		field = f
		t = f.Type
	}
	if l := field.Tag.Get("label"); l != "" {
		return l
	}
	return fallback
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "httpurl":
		return fmt.Sprintf("%s must be a valid http(s) URL.", label)
	case "role":
		return fmt.Sprintf("%s must be one of: owner, admin, member, viewer.", label)
	case "password":
		return fmt.Sprintf("%s must contain an uppercase letter, a lowercase letter and a number.", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
