// internal/app/system/formspec/state.go
package formspec

// State tracks one form being filled in: values, which fields the user has
// interacted with, local validation errors and errors reported by the server.
//
// Errors are only visible for touched fields. Submit touches every field.
// State is not safe for concurrent use.
type State struct {
	fields   []Field
	index    map[string]int
	values   map[string]any
	touched  map[string]bool
	local    map[string]string
	external map[string]string
}

// NewState starts a form with the given initial values.
func NewState(fields []Field, initial map[string]any) *State {
	s := &State{
		fields:   fields,
		index:    make(map[string]int, len(fields)),
		values:   make(map[string]any, len(fields)),
		touched:  make(map[string]bool),
		local:    make(map[string]string),
		external: make(map[string]string),
	}
	for i, f := range fields {
		s.index[f.Name] = i
	}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

func (s *State) Value(name string) any { return s.values[name] }

// Values returns a copy of the current values.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *State) Touched(name string) bool { return s.touched[name] }

// Change sets a value. A touched field is revalidated, and its server error
// is dropped since it referred to the old value.
func (s *State) Change(name string, value any) {
	s.values[name] = value
	if s.touched[name] {
		delete(s.external, name)
		s.validate(name)
	}
}

// Blur marks the field touched and validates it.
func (s *State) Blur(name string) {
	if _, ok := s.index[name]; !ok {
		return
	}
	s.touched[name] = true
	s.validate(name)
}

// Submit touches and validates every field. It reports whether the form may
// be submitted.
func (s *State) Submit() bool {
	for _, f := range s.fields {
		s.touched[f.Name] = true
	}
	s.local = ValidateForm(s.fields, s.values)
	return len(s.local) == 0
}

// SetExternalErrors merges server-reported field errors. An empty message
// clears that field's server error.
func (s *State) SetExternalErrors(errs map[string]string) {
	for k, msg := range errs {
		if msg == "" {
			delete(s.external, k)
			continue
		}
		s.external[k] = msg
	}
}

// VisibleErrors returns the errors to display: for each touched field its
// local error, or else its server error.
func (s *State) VisibleErrors() map[string]string {
	out := make(map[string]string)
	for name := range s.touched {
		if msg := s.local[name]; msg != "" {
			out[name] = msg
		} else if msg := s.external[name]; msg != "" {
			out[name] = msg
		}
	}
	return out
}

func (s *State) validate(name string) {
	i, ok := s.index[name]
	if !ok {
		return
	}
	if msg := ValidateField(s.fields[i], s.values[name]); msg != "" {
		s.local[name] = msg
	} else {
		delete(s.local, name)
	}
}
