package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/tourney/internal/client/api"
	"github.com/atinyakov/tourney/internal/client/tokenstore"
	"github.com/atinyakov/tourney/internal/models"
)

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestShell_LoginFlow(t *testing.T) {
	store := tokenstore.NewMemory()
	auth := &fakeAuth{LoginFunc: func(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
		return &models.AuthResponse{AccessToken: "T", TokenType: "bearer"}, nil
	}}

	in := strings.NewReader("login\na@b.com\npw\nexit\n")
	var out bytes.Buffer
	sh := NewShell(in, &out, auth, store, nil)
	sh.Run(context.Background())

	tok, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "T", tok)
	assert.Equal(t, RouteHome, sh.Router().Current())
	assert.Contains(t, out.String(), "== Login ==")
	assert.Contains(t, out.String(), "Logged in.")
	assert.Contains(t, out.String(), "Bye")
}

func TestShell_LoginErrorKeepsShellAlive(t *testing.T) {
	auth := &fakeAuth{LoginFunc: func(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
		return nil, &api.APIError{Status: 401, Detail: "bad credentials"}
	}}

	in := strings.NewReader("login\na@b.com\nwrong\nhelp\n")
	var out bytes.Buffer
	sh := NewShell(in, &out, auth, tokenstore.NewMemory(), nil)
	sh.Run(context.Background())

	assert.Contains(t, out.String(), "Error: bad credentials")
	assert.Contains(t, out.String(), "register  create an account")
	assert.Equal(t, RouteLogin, sh.Router().Current())
}

func TestShell_RegisterFlow(t *testing.T) {
	var got []string
	auth := &fakeAuth{RegisterFunc: func(ctx context.Context, email, displayName, secret string) (json.RawMessage, error) {
		got = []string{email, displayName, secret}
		return json.RawMessage(`{}`), nil
	}}

	in := strings.NewReader("register\na@b.com\nPlayer One\npw\n")
	var out bytes.Buffer
	sh := NewShell(in, &out, auth, tokenstore.NewMemory(), nil)
	sh.Run(context.Background())

	assert.Equal(t, []string{"a@b.com", "Player One", "pw"}, got)
	assert.Equal(t, RouteLogin, sh.Router().Current())
	assert.Contains(t, out.String(), "Account created.")
}

func TestShell_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	sh := NewShell(strings.NewReader(""), &out, &fakeAuth{}, tokenstore.NewMemory(), nil)

	assert.True(t, sh.Exec(context.Background(), "dance"))
	assert.True(t, sh.Exec(context.Background(), "   "))
	assert.False(t, sh.Exec(context.Background(), "exit"))
	assert.Contains(t, out.String(), "Unknown command")
}

func TestShell_Status(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		auth := &fakeAuth{}
		sh := NewShell(strings.NewReader(""), &bytes.Buffer{}, auth, tokenstore.NewMemory(), nil)
		assert.Equal(t, "Not logged in", sh.Status(context.Background()))
		assert.Zero(t, auth.calls, "no token means no profile request")
	})

	t.Run("jwt token", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.Set(signedToken(t, "a@b.com")))
		auth := &fakeAuth{MeFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return &models.UserProfile{Email: "a@b.com", DisplayName: "Name"}, nil
		}}
		sh := NewShell(strings.NewReader(""), &bytes.Buffer{}, auth, store, nil)

		status := sh.Status(context.Background())
		assert.Contains(t, status, "subject a@b.com")
		assert.Contains(t, status, "Logged in as Name <a@b.com>")
	})

	t.Run("opaque token rejected", func(t *testing.T) {
		store := tokenstore.NewMemory()
		require.NoError(t, store.Set("opaque"))
		auth := &fakeAuth{MeFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return nil, &api.APIError{Status: 401, Detail: "Could not validate credentials"}
		}}
		sh := NewShell(strings.NewReader(""), &bytes.Buffer{}, auth, store, nil)

		status := sh.Status(context.Background())
		assert.NotContains(t, status, "subject")
		assert.Contains(t, status, "Profile unavailable: Could not validate credentials")
	})
}

func TestTokenSubject(t *testing.T) {
	assert.Equal(t, "x@y.z", tokenSubject(signedToken(t, "x@y.z")))
	assert.Empty(t, tokenSubject("not.a.jwt"))
	assert.Empty(t, tokenSubject(""))
}

func TestShell_RunCommandReportsFailure(t *testing.T) {
	rejected := &fakeAuth{
		LoginFunc: func(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
			return nil, &api.APIError{Status: 401, Detail: "Incorrect email or password"}
		},
		RegisterFunc: func(ctx context.Context, email, displayName, secret string) (json.RawMessage, error) {
			return nil, &api.APIError{Status: 400, Detail: "Email already has an account"}
		},
	}

	tests := []struct {
		name    string
		line    string
		input   string
		auth    *fakeAuth
		wantErr bool
	}{
		{name: "login rejected", line: "login", input: "a@b.com\nwrong\n", auth: rejected, wantErr: true},
		{name: "register rejected", line: "register", input: "a@b.com\nName\npw\n", auth: rejected, wantErr: true},
		{name: "status without token", line: "status", auth: &fakeAuth{}, wantErr: true},
		{name: "unknown command", line: "dance", auth: &fakeAuth{}, wantErr: true},
		{name: "help", line: "help", auth: &fakeAuth{}},
		{
			name:  "login accepted",
			line:  "login",
			input: "a@b.com\npw\n",
			auth: &fakeAuth{LoginFunc: func(ctx context.Context, identifier, secret string) (*models.AuthResponse, error) {
				return &models.AuthResponse{AccessToken: "T", TokenType: "bearer"}, nil
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := NewShell(strings.NewReader(tt.input), &bytes.Buffer{}, tt.auth, tokenstore.NewMemory(), nil)
			err := sh.RunCommand(context.Background(), tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShell_RunCommandStatusNotLoggedIn(t *testing.T) {
	var out bytes.Buffer
	sh := NewShell(strings.NewReader(""), &out, &fakeAuth{}, tokenstore.NewMemory(), nil)

	err := sh.RunCommand(context.Background(), "status")

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Contains(t, out.String(), "Not logged in")
}
