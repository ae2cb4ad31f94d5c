// Package http provides the dev API's HTTP handlers for registration,
// login and the current user's profile.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/metrics"
	"github.com/atinyakov/tourney/internal/models"
	"github.com/atinyakov/tourney/internal/service"
)

// AuthService defines the authentication operations required by the HTTP handlers.
type AuthService interface {
	// Register creates an account, failing with service.ErrEmailTaken or
	// service.ErrDisplayNameTaken on conflicts.
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// Login returns an access token, failing with service.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log receives internal errors; nil disables logging.
	Log *zap.Logger
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Register handles POST /auth/register.
// It expects a JSON body with email, display_name and password, and answers
// 201 with the new user's profile, 400 when the email or display name is
// taken, and 422 when the body is malformed.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, []models.ValidationDetail{{
			Loc: []any{"body"}, Msg: "invalid JSON body", Type: "json_invalid",
		}})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidation(w, validationDetails(err))
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		writeDetail(w, http.StatusBadRequest, "Email already has an account")
		return
	case errors.Is(err, service.ErrDisplayNameTaken):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		writeDetail(w, http.StatusBadRequest, "Display name already taken")
		return
	case err != nil:
		h.logError("register failed", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	writeJSON(w, http.StatusCreated, user.Profile())
}

// Login handles POST /auth/login.
// It expects a form body with username (the email) and password and answers
// with {"access_token", "token_type"} or 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeValidation(w, []models.ValidationDetail{{
			Loc: []any{"body"}, Msg: "invalid form body", Type: "value_error",
		}})
		return
	}
	req := models.LoginRequest{
		Identifier: r.PostForm.Get("username"),
		Secret:     r.PostForm.Get("password"),
	}
	if err := validate.Struct(req); err != nil {
		writeValidation(w, validationDetails(err))
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req.Identifier, req.Secret)
	if errors.Is(err, service.ErrInvalidCredentials) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if err != nil {
		h.logError("login failed", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logError(msg string, err error) {
	if h.Log != nil {
		h.Log.Error(msg, zap.Error(err))
	}
}

// wireNames maps struct fields to the names clients send.
var wireNames = map[string]string{
	"Identifier":  "username",
	"Secret":      "password",
	"Email":       "email",
	"DisplayName": "display_name",
}

func validationDetails(err error) []models.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.ValidationDetail{{Loc: []any{"body"}, Msg: err.Error(), Type: "value_error"}}
	}
	details := make([]models.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		name := wireNames[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		d := models.ValidationDetail{Loc: []any{"body", name}}
		switch fe.Tag() {
		case "required":
			d.Msg, d.Type = "Field required", "missing"
		case "email":
			d.Msg, d.Type = "value is not a valid email address", "value_error"
		default:
			d.Msg, d.Type = "invalid value", "value_error"
		}
		details = append(details, d)
	}
	return details
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

func writeValidation(w http.ResponseWriter, details []models.ValidationDetail) {
	writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Detail: details})
}
