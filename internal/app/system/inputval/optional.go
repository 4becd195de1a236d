// internal/app/system/inputval/optional.go
package inputval

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// OptString is a string field of a partial update. It tells apart a field
// that was absent (Set=false), explicitly null (Null=true) and a value.
//
// For validation it presents as *string: nil when absent or null, so
// `validate:"omitnil,..."` rules only run on supplied values.
type OptString struct {
	Set   bool
	Null  bool
	Value string
}

// UnmarshalJSON records presence and trims surrounding whitespace.
func (o *OptString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = strings.TrimSpace(s)
	return nil
}

// Some returns a supplied OptString.
func Some(s string) OptString { return OptString{Set: true, Value: s} }

// Present reports whether a non-null value was supplied.
func (o OptString) Present() bool { return o.Set && !o.Null }

// Ptr returns the value for a supplied, non-null field, else nil.
func (o OptString) Ptr() *string {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

func optStringValue(v reflect.Value) any {
	o, _ := v.Interface().(OptString)
	return o.Ptr()
}
