// internal/app/system/formspec/registry.go
package formspec

import "sort"

// Form names served to the client.
const (
	FormLogin           = "login"
	FormRegister        = "register"
	FormRegisterCompany = "register_company"
	FormCompany         = "company"
	FormCompanyEdit     = "company_edit"
	FormPersonalInfo    = "personal_info"
	FormAddMember       = "add_member"
)

// Industries lists the industry choices of company forms.
var Industries = []Option{
	{Value: "technology", Label: "Technology"},
	{Value: "finance", Label: "Finance"},
	{Value: "healthcare", Label: "Healthcare"},
	{Value: "education", Label: "Education"},
	{Value: "retail", Label: "Retail"},
	{Value: "manufacturing", Label: "Manufacturing"},
	{Value: "consulting", Label: "Consulting"},
	{Value: "legal", Label: "Legal"},
	{Value: "real-estate", Label: "Real estate"},
	{Value: "hospitality", Label: "Hospitality"},
	{Value: "transportation", Label: "Transportation"},
	{Value: "energy", Label: "Energy"},
	{Value: "media", Label: "Media and entertainment"},
	{Value: "nonprofit", Label: "Nonprofit"},
	{Value: "other", Label: "Other"},
}

// Countries lists the country choices of company forms.
var Countries = []Option{
	{Value: "mx", Label: "Mexico"},
	{Value: "us", Label: "United States"},
	{Value: "ca", Label: "Canada"},
	{Value: "co", Label: "Colombia"},
	{Value: "ar", Label: "Argentina"},
	{Value: "cl", Label: "Chile"},
	{Value: "pe", Label: "Peru"},
	{Value: "br", Label: "Brazil"},
	{Value: "es", Label: "Spain"},
	{Value: "uk", Label: "United Kingdom"},
	{Value: "au", Label: "Australia"},
	{Value: "de", Label: "Germany"},
	{Value: "fr", Label: "France"},
	{Value: "gt", Label: "Guatemala"},
	{Value: "cr", Label: "Costa Rica"},
	{Value: "pa", Label: "Panama"},
	{Value: "ec", Label: "Ecuador"},
	{Value: "bo", Label: "Bolivia"},
	{Value: "py", Label: "Paraguay"},
	{Value: "uy", Label: "Uruguay"},
	{Value: "ve", Label: "Venezuela"},
	{Value: "hn", Label: "Honduras"},
	{Value: "sv", Label: "El Salvador"},
	{Value: "ni", Label: "Nicaragua"},
	{Value: "do", Label: "Dominican Republic"},
	{Value: "cu", Label: "Cuba"},
	{Value: "pr", Label: "Puerto Rico"},
	{Value: "jm", Label: "Jamaica"},
	{Value: "tt", Label: "Trinidad and Tobago"},
	{Value: "bs", Label: "Bahamas"},
	{Value: "bz", Label: "Belize"},
	{Value: "other", Label: "Other"},
}

// Roles lists the membership roles offered when adding a member.
var Roles = []Option{
	{Value: "member", Label: "Member"},
	{Value: "admin", Label: "Administrator"},
	{Value: "viewer", Label: "Viewer"},
	{Value: "owner", Label: "Owner"},
}

var registry = map[string]Form{
	FormLogin: {
		Name:        FormLogin,
		SubmitLabel: "Sign in",
		Fields: []Field{
			{Name: "email", Label: "Email", Type: TypeEmail, Placeholder: "you@example.com",
				Rules: &Rules{Required: true, Email: true}},
			{Name: "password", Label: "Password", Type: TypePassword, Placeholder: "Enter your password",
				Rules: &Rules{Required: true}},
		},
	},
	FormRegister: {
		Name:        FormRegister,
		SubmitLabel: "Create account",
		Fields:      userFields(),
	},
	FormRegisterCompany: {
		Name:        FormRegisterCompany,
		SubmitLabel: "Create account",
		Fields:      append(userFields(), companyFields(registrationNames)...),
	},
	FormCompany: {
		Name:        FormCompany,
		SubmitLabel: "Create company",
		Fields:      companyFields(apiNames),
	},
	FormCompanyEdit: {
		Name:        FormCompanyEdit,
		SubmitLabel: "Save changes",
		Fields:      companyFields(apiNames),
	},
	FormPersonalInfo: {
		Name:        FormPersonalInfo,
		SubmitLabel: "Save changes",
		Fields: []Field{
			{Name: "name", Label: "Full name", Type: TypeText, Placeholder: "Enter your full name",
				Rules: &Rules{Required: true, MinLength: 2, MaxLength: 100}},
			{Name: "email", Label: "Email", Type: TypeEmail, Placeholder: "you@example.com",
				HelperText: "Used to sign in", Rules: &Rules{Required: true, Email: true}},
			{Name: "phone", Label: "Phone", Type: TypeTel, Placeholder: "+1 (555) 123-4567",
				HelperText: "Optional", Rules: &Rules{MaxLength: 30}},
		},
	},
	FormAddMember: {
		Name:        FormAddMember,
		SubmitLabel: "Send invitation",
		Fields: []Field{
			{Name: "email", Label: "Email", Type: TypeEmail, Placeholder: "colleague@example.com",
				HelperText: "The person must already have an account",
				Rules:      &Rules{Required: true, Email: true}},
			{Name: "role", Label: "Role", Type: TypeSelect, Options: Roles,
				Rules: &Rules{Required: true}},
		},
	},
}

// Lookup returns the named form.
func Lookup(name string) (Form, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns the registered form names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func userFields() []Field {
	return []Field{
		{Name: "userName", Label: "Full name", Type: TypeText, Placeholder: "Enter your full name",
			HelperText: "This will be your account name",
			Rules:      &Rules{Required: true, MinLength: 2, MaxLength: 100}},
		{Name: "userEmail", Label: "Email", Type: TypeEmail, Placeholder: "you@example.com",
			HelperText: "Used to sign in",
			Rules:      &Rules{Required: true, Email: true}},
		{Name: "userPassword", Label: "Password", Type: TypePassword, Placeholder: "Create a strong password",
			HelperText: "At least 8 characters with uppercase, lowercase and numbers",
			Rules:      &Rules{Required: true, MinLength: 8, PasswordStrength: true}},
		{Name: "userPhone", Label: "Phone", Type: TypeTel, Placeholder: "+1 (555) 123-4567",
			HelperText: "Optional, used for account recovery",
			Rules:      &Rules{MaxLength: 30}},
	}
}

// companyNames holds the field names a company form uses. Registration forms
// use flat names and the company endpoints use JSON paths, matching the keys
// of the server's validation errors.
type companyNames struct {
	name, email, phone                       string
	street, city, state, postalCode, country string
	website, industry, description           string
}

var registrationNames = companyNames{
	name: "companyName", email: "companyEmail", phone: "companyPhone",
	street: "street", city: "city", state: "state", postalCode: "postalCode", country: "country",
	website: "website", industry: "industry", description: "description",
}

var apiNames = companyNames{
	name: "name", email: "email", phone: "phone",
	street: "address.street", city: "address.city", state: "address.state",
	postalCode: "address.postalCode", country: "address.country",
	website: "website", industry: "industry", description: "description",
}

func companyFields(n companyNames) []Field {
	return []Field{
		{Name: n.name, Label: "Company name", Type: TypeText, Placeholder: "Enter the company name",
			Rules: &Rules{Required: true, MinLength: 2, MaxLength: 100}},
		{Name: n.email, Label: "Company email", Type: TypeEmail, Placeholder: "contact@company.com",
			Rules: &Rules{Required: true, Email: true}},
		{Name: n.phone, Label: "Company phone", Type: TypeTel, Placeholder: "+1 (555) 123-4567",
			Rules: &Rules{Required: true, MinLength: 7, MaxLength: 30}},
		{Name: n.street, Label: "Street address", Type: TypeText, Placeholder: "123 Main St",
			Rules: &Rules{Required: true, MinLength: 3, MaxLength: 200}},
		{Name: n.city, Label: "City", Type: TypeText,
			Rules: &Rules{Required: true, MinLength: 2, MaxLength: 100}},
		{Name: n.state, Label: "State / Province", Type: TypeText,
			Rules: &Rules{Required: true, MinLength: 2, MaxLength: 100}},
		{Name: n.postalCode, Label: "Postal code", Type: TypeText,
			Rules: &Rules{Required: true, MinLength: 3, MaxLength: 20}},
		{Name: n.country, Label: "Country", Type: TypeSelect, Options: Countries,
			Rules: &Rules{Required: true}},
		{Name: n.website, Label: "Website", Type: TypeURL, Placeholder: "https://www.company.com",
			HelperText: "Optional", Rules: &Rules{URL: true, MaxLength: 200}},
		{Name: n.industry, Label: "Industry", Type: TypeSelect, Options: Industries,
			HelperText: "Optional"},
		{Name: n.description, Label: "Description", Type: TypeTextarea, Rows: 4,
			Placeholder: "A short description of the company",
			HelperText:  "Optional, up to 500 characters",
			Rules:       &Rules{MaxLength: 500}},
	}
}
