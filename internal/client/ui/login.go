package ui

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/client/api"
	"github.com/atinyakov/tourney/internal/client/tokenstore"
)

const loginFallback = "Login failed"

type loginForm struct {
	Email    string `label:"Email" validate:"required,email"`
	Password string `label:"Password" validate:"required"`
}

// LoginView submits credentials, stores the returned token and navigates home.
type LoginView struct {
	form
	auth  AuthClient
	store tokenstore.Store
	nav   Navigator
	log   *zap.Logger
}

// NewLoginView wires a login view.
func NewLoginView(auth AuthClient, store tokenstore.Store, nav Navigator, log *zap.Logger) *LoginView {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginView{auth: auth, store: store, nav: nav, log: log}
}

// Submit logs in. On success the access token is written to the store and the
// view navigates to RouteHome. On failure Error reports a displayable message.
func (v *LoginView) Submit(ctx context.Context, email, password string) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	if err := validate.Struct(loginForm{Email: email, Password: password}); err != nil {
		v.setError(validationMessage(err))
		return err
	}

	resp, err := v.auth.Login(ctx, email, password)
	if err != nil {
		v.setError(api.ErrorMessage(err, loginFallback))
		return err
	}

	if err := v.store.Set(resp.AccessToken); err != nil {
		v.log.Error("failed to persist token", zap.Error(err))
		v.setError(loginFallback)
		return fmt.Errorf("store token: %w", err)
	}

	v.log.Info("logged in", zap.String("token_type", resp.TokenType))
	v.nav.Navigate(RouteHome)
	return nil
}
