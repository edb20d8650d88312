package ratelimit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ValidateFunc valida a requisição antes dela chegar no backend.
// O erro vira a mensagem do 400.
type ValidateFunc func(r *http.Request) error

// JSONBodyValidator exige, em POST/PUT/PATCH, um objeto JSON de até maxBytes
// contendo os campos required (strings não podem ser vazias).
// O body é restaurado para o próximo handler.
func JSONBodyValidator(maxBytes int64, required ...string) ValidateFunc {
	return func(r *http.Request) error {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			return nil
		}
		if r.Body == nil {
			return errors.New("request body cannot be empty")
		}

		buf, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
		_ = r.Body.Close()
		if err != nil {
			return errors.New("failed to read request body")
		}
		r.Body = io.NopCloser(bytes.NewReader(buf))
		r.ContentLength = int64(len(buf))

		if int64(len(buf)) > maxBytes {
			return fmt.Errorf("request body exceeds %d bytes", maxBytes)
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			return errors.New("request body cannot be empty")
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(buf, &fields); err != nil || fields == nil {
			return errors.New("request body must be a JSON object")
		}
		for _, name := range required {
			raw, ok := fields[name]
			if !ok || string(raw) == "null" {
				return fmt.Errorf("%s is required", name)
			}
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s cannot be empty", name)
			}
		}
		return nil
	}
}
