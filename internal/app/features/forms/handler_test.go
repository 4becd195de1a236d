package forms_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nexa/internal/app/features/forms"
	"github.com/dalemusser/nexa/internal/app/system/formspec"
	"github.com/dalemusser/nexa/internal/testutil"
)

func serve(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	forms.Routes(forms.NewHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServeIndex(t *testing.T) {
	rec := serve("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var names []string
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec), &names)
	if len(names) != len(formspec.Names()) {
		t.Errorf("names = %v", names)
	}
}

func TestServeForm(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/login", http.StatusOK},
		{"/register_company", http.StatusOK},
		{"/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var form formspec.Form
			testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec), &form)
			if "/"+form.Name != tt.path || len(form.Fields) == 0 {
				t.Errorf("unexpected form: %+v", form)
			}
		})
	}
}

func TestServeForm_RulesSerialized(t *testing.T) {
	rec := serve("/login")
	var form struct {
		Fields []struct {
			Name       string `json:"name"`
			Validation struct {
				Required bool `json:"required"`
				Email    bool `json:"email"`
			} `json:"validation"`
		} `json:"fields"`
	}
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec), &form)
	if len(form.Fields) == 0 || form.Fields[0].Name != "email" {
		t.Fatalf("unexpected fields: %+v", form.Fields)
	}
	if !form.Fields[0].Validation.Required || !form.Fields[0].Validation.Email {
		t.Errorf("rules not serialized: %+v", form.Fields[0].Validation)
	}
}
