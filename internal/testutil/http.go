package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nexa/internal/app/system/auth"
	"github.com/dalemusser/nexa/internal/app/system/respond"
)

// WithUser returns r carrying a verified caller, as the bearer middleware would.
func WithUser(r *http.Request, uid, email string) *http.Request {
	return auth.WithUser(r, &auth.User{UID: uid, Email: email})
}

// JSONRequest builds a request whose body is body encoded as JSON. A string
// body is sent verbatim.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Envelope is a decoded response with Data left raw for a second decode.
type Envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Message string             `json:"message"`
	Error   *respond.ErrorBody `json:"error"`
}

// DecodeEnvelope decodes the recorder's body, failing the test on bad JSON.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// DecodeData decodes env.Data into dst.
func DecodeData(t *testing.T, env Envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}
