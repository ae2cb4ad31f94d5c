package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/client/api"
)

const registerFallback = "Registry failed"

type registerForm struct {
	Email       string `label:"Email" validate:"required,email"`
	DisplayName string `label:"Display name" validate:"required"`
	Password    string `label:"Password" validate:"required"`
}

// RegisterView creates an account and navigates to the login view.
type RegisterView struct {
	form
	auth AuthClient
	nav  Navigator
	log  *zap.Logger
}

// NewRegisterView wires a registration view.
func NewRegisterView(auth AuthClient, nav Navigator, log *zap.Logger) *RegisterView {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegisterView{auth: auth, nav: nav, log: log}
}

// Submit registers the account. Any successful response navigates to RouteLogin;
// the response body is not inspected.
func (v *RegisterView) Submit(ctx context.Context, email, displayName, password string) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	if err := validate.Struct(registerForm{Email: email, DisplayName: displayName, Password: password}); err != nil {
		v.setError(validationMessage(err))
		return err
	}

	if _, err := v.auth.Register(ctx, email, displayName, password); err != nil {
		v.setError(api.ErrorMessage(err, registerFallback))
		return err
	}

	v.log.Info("registered", zap.String("display_name", displayName))
	v.nav.Navigate(RouteLogin)
	return nil
}
