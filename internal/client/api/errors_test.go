package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail present", &APIError{Status: 401, Detail: "bad credentials"}, "bad credentials"},
		{"no detail", &APIError{Status: 401}, "Login failed"},
		{"wrapped detail", fmt.Errorf("submit: %w", &APIError{Status: 400, Detail: "taken"}), "taken"},
		{"network", &NetworkError{Op: "POST /auth/login", Err: errors.New("dial")}, "Login failed"},
		{"plain", errors.New("boom"), "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, "Login failed"))
		})
	}
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail":"Incorrect email or password"}`, "Incorrect email or password"},
		{"empty body", ``, ""},
		{"not json", `<html>502</html>`, ""},
		{"no detail", `{"error":"x"}`, ""},
		{"null detail", `{"detail":null}`, ""},
		{
			"validation list",
			`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error"},{"loc":["body",0],"msg":"field required","type":"missing"}]}`,
			"value is not a valid email address; field required",
		},
		{"object detail", `{"detail":{"code":1}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "api error: 401: nope", (&APIError{Status: 401, Detail: "nope"}).Error())
	assert.Equal(t, "api error: 500 Internal Server Error", (&APIError{Status: 500}).Error())

	inner := errors.New("dial tcp")
	netErr := &NetworkError{Op: "GET /users/me", Err: inner}
	assert.Equal(t, "GET /users/me: network error: dial tcp", netErr.Error())
	assert.ErrorIs(t, netErr, inner)
}
