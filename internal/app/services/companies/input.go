// internal/app/services/companies/input.go
package companysvc

import (
	companystore "github.com/dalemusser/nexa/internal/app/store/companies"
	"github.com/dalemusser/nexa/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nexa/internal/app/system/inputval"
	"github.com/dalemusser/nexa/internal/domain/models"
)

// AddressInput is the address block of a new company.
type AddressInput struct {
	Street     string `json:"street" validate:"required,max=200" label:"Street"`
	City       string `json:"city" validate:"required,max=100" label:"City"`
	State      string `json:"state" validate:"required,max=100" label:"State"`
	PostalCode string `json:"postalCode" validate:"required,max=20" label:"Postal code"`
	Country    string `json:"country" validate:"required,max=100" label:"Country"`
}

// Input is the body of a company creation.
type Input struct {
	Name        string       `json:"name" validate:"required,min=2,max=100" label:"Company name"`
	Email       string       `json:"email" validate:"required,email,max=254" label:"Company email"`
	Phone       string       `json:"phone" validate:"required,min=7,max=30" label:"Company phone"`
	Address     AddressInput `json:"address"`
	Website     string       `json:"website" validate:"omitempty,httpurl,max=200" label:"Website"`
	Description string       `json:"description" validate:"omitempty,max=500" label:"Description"`
	Industry    string       `json:"industry" validate:"omitempty,max=100" label:"Industry"`
}

// Sanitized returns in with markup stripped from the free-text fields.
// Validation and storage both work on this form.
func (in Input) Sanitized() Input {
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Description = htmlsanitize.PlainText(in.Description)
	return in
}

// Company converts the sanitized input to a document. Optional fields are
// kept only when non-empty.
func (in Input) Company() models.Company {
	in = in.Sanitized()
	return models.Company{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Address: models.Address{
			Street:     in.Address.Street,
			City:       in.Address.City,
			State:      in.Address.State,
			PostalCode: in.Address.PostalCode,
			Country:    in.Address.Country,
		},
		Website:     optional(in.Website),
		Description: optional(in.Description),
		Industry:    optional(in.Industry),
	}
}

// AddressPatch merges into the stored address.
type AddressPatch struct {
	Street     inputval.OptString `json:"street" validate:"omitnil,min=3,max=200" label:"Street"`
	City       inputval.OptString `json:"city" validate:"omitnil,min=2,max=100" label:"City"`
	State      inputval.OptString `json:"state" validate:"omitnil,min=2,max=100" label:"State"`
	PostalCode inputval.OptString `json:"postalCode" validate:"omitnil,min=3,max=20" label:"Postal code"`
	Country    inputval.OptString `json:"country" validate:"omitnil,min=1,max=100" label:"Country"`
}

// Patch is a partial company update. Absent fields are unchanged. Website,
// description and industry given as "" or null are cleared.
type Patch struct {
	Name        inputval.OptString `json:"name" validate:"omitnil,min=2,max=100" label:"Company name"`
	Email       inputval.OptString `json:"email" validate:"omitnil,email,max=254" label:"Company email"`
	Phone       inputval.OptString `json:"phone" validate:"omitnil,min=7,max=30" label:"Company phone"`
	Address     *AddressPatch      `json:"address"`
	Website     inputval.OptString `json:"website" validate:"omitnil,httpurl,max=200" label:"Website"`
	Description inputval.OptString `json:"description" validate:"omitnil,max=500" label:"Description"`
	Industry    inputval.OptString `json:"industry" validate:"omitnil,max=100" label:"Industry"`
}

// sanitized strips markup from the free-text fields that were supplied.
func (p Patch) sanitized() Patch {
	if p.Name.Set && !p.Name.Null {
		p.Name.Value = htmlsanitize.PlainText(p.Name.Value)
	}
	if p.Description.Set && !p.Description.Null {
		p.Description.Value = htmlsanitize.PlainText(p.Description.Value)
	}
	return p
}

// storePatch converts a sanitized p and lists the supplied field names.
func (p Patch) storePatch() (companystore.Patch, []string) {
	var sp companystore.Patch
	var changed []string

	set := func(dst **string, o inputval.OptString, name string) {
		if v := o.Ptr(); v != nil {
			*dst = v
			changed = append(changed, name)
		}
	}
	clearable := func(dst **string, o inputval.OptString, name string) {
		if !o.Set {
			return
		}
		v := o.Value
		*dst = &v
		changed = append(changed, name)
	}

	set(&sp.Name, p.Name, "name")
	set(&sp.Email, p.Email, "email")
	set(&sp.Phone, p.Phone, "phone")
	if a := p.Address; a != nil {
		set(&sp.Street, a.Street, "address.street")
		set(&sp.City, a.City, "address.city")
		set(&sp.State, a.State, "address.state")
		set(&sp.PostalCode, a.PostalCode, "address.postalCode")
		set(&sp.Country, a.Country, "address.country")
	}
	clearable(&sp.Website, p.Website, "website")
	clearable(&sp.Description, p.Description, "description")
	clearable(&sp.Industry, p.Industry, "industry")
	return sp, changed
}

// AddMemberInput invites a registered user by email.
type AddMemberInput struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
	Role  string `json:"role" validate:"required,role" label:"Role"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
