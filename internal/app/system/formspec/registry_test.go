package formspec_test

import (
	"testing"

	"github.com/dalemusser/nexa/internal/app/system/formspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"add_member", "company", "company_edit", "login", "personal_info", "register", "register_company",
	}, formspec.Names())
}

func TestLookup(t *testing.T) {
	_, ok := formspec.Lookup("missing")
	assert.False(t, ok)

	for _, name := range formspec.Names() {
		form, ok := formspec.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, form.Name)
		assert.NotEmpty(t, form.Fields, name)

		seen := map[string]bool{}
		for _, f := range form.Fields {
			assert.False(t, seen[f.Name], "%s: duplicate field %s", name, f.Name)
			seen[f.Name] = true
			if f.Type == formspec.TypeSelect {
				assert.NotEmpty(t, f.Options, "%s.%s has no options", name, f.Name)
			}
		}
	}
}

func TestRegisterCompanyFieldNames(t *testing.T) {
	form, ok := formspec.Lookup(formspec.FormRegisterCompany)
	require.True(t, ok)

	var names []string
	for _, f := range form.Fields {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "userEmail")
	assert.Contains(t, names, "companyName")
	assert.Contains(t, names, "postalCode")

	company, _ := formspec.Lookup(formspec.FormCompany)
	var apiNames []string
	for _, f := range company.Fields {
		apiNames = append(apiNames, f.Name)
	}
	assert.Contains(t, apiNames, "address.city")
}

func TestRegisterForm_Validates(t *testing.T) {
	form, _ := formspec.Lookup(formspec.FormRegister)
	errs := formspec.ValidateForm(form.Fields, map[string]any{
		"userName":     "Ada",
		"userEmail":    "ada@example.com",
		"userPassword": "weakpassword",
	})
	assert.Equal(t, map[string]string{"userPassword": formspec.MsgWeakPassword}, errs)
}
