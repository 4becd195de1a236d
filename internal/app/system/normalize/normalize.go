// Package normalize cleans user-supplied identifiers before they are stored
// or compared.
package normalize

import "strings"

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Phone trims surrounding whitespace. Formatting is left to the client.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a membership role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
