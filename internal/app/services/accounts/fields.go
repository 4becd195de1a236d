// internal/app/services/accounts/fields.go
package accountsvc

// registerFormFields maps registration JSON paths to the field names of the
// client's registration forms.
var registerFormFields = map[string]string{
	"user.name":                  "userName",
	"user.email":                 "userEmail",
	"user.password":              "userPassword",
	"user.phone":                 "userPhone",
	"company":                    "companyName",
	"company.name":               "companyName",
	"company.email":              "companyEmail",
	"company.phone":              "companyPhone",
	"company.address.street":     "street",
	"company.address.city":       "city",
	"company.address.state":      "state",
	"company.address.postalCode": "postalCode",
	"company.address.country":    "country",
	"company.website":            "website",
	"company.industry":           "industry",
	"company.description":        "description",
}

// FormField returns the client form name for a registration JSON path.
// Unknown paths are returned unchanged.
func FormField(path string) string {
	if f, ok := registerFormFields[path]; ok {
		return f
	}
	return path
}

