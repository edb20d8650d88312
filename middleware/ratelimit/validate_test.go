package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONBodyValidator(t *testing.T) {
	v := JSONBodyValidator(32, "message")

	cases := []struct {
		name    string
		method  string
		body    string
		wantErr string
	}{
		{"get skips", http.MethodGet, "", ""},
		{"valid", http.MethodPost, `{"message":"hello"}`, ""},
		{"empty body", http.MethodPost, "   ", "request body cannot be empty"},
		{"not object", http.MethodPost, `[1,2]`, "request body must be a JSON object"},
		{"null", http.MethodPost, `null`, "request body must be a JSON object"},
		{"missing field", http.MethodPost, `{"other":"x"}`, "message is required"},
		{"blank field", http.MethodPut, `{"message":" "}`, "message cannot be empty"},
		{"non-string field", http.MethodPatch, `{"message":3}`, ""},
		{"too large", http.MethodPost, `{"message":"` + strings.Repeat("a", 40) + `"}`, "request body exceeds 32 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, "http://example/chat/api/chat", strings.NewReader(tc.body))
			err := v(r)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}
