// Package formspec describes client forms as ordered field descriptors and
// validates values against them.
//
// The same descriptors are served to the web client, which renders them, and
// used here to validate submitted values, so both sides agree on the rules
// and the field names that server-side errors are keyed by.
package formspec

// FieldType selects the input control.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeEmail       FieldType = "email"
	TypePassword    FieldType = "password"
	TypeNumber      FieldType = "number"
	TypeTel         FieldType = "tel"
	TypeURL         FieldType = "url"
	TypeTextarea    FieldType = "textarea"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multiselect"
	TypeDate        FieldType = "date"
	TypeCheckbox    FieldType = "checkbox"
)

// Rules are the validation rules of one field. Zero values disable a rule.
type Rules struct {
	Required         bool     `json:"required,omitempty"`
	MinLength        int      `json:"minLength,omitempty"`
	MaxLength        int      `json:"maxLength,omitempty"`
	Min              *float64 `json:"min,omitempty"`
	Max              *float64 `json:"max,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	Email            bool     `json:"email,omitempty"`
	URL              bool     `json:"url,omitempty"`
	PasswordStrength bool     `json:"passwordStrength,omitempty"`
}

// Option is one choice of a select or multiselect field.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Field is one input of a form.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelperText  string    `json:"helperText,omitempty"`
	Rules       *Rules    `json:"validation,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Rows        int       `json:"rows,omitempty"`
}

// Form is a named, ordered list of fields.
type Form struct {
	Name        string  `json:"name"`
	SubmitLabel string  `json:"submitLabel"`
	Fields      []Field `json:"fields"`
}
