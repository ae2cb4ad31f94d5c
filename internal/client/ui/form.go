package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/tourney/internal/models"
)

// ErrSubmitPending is returned when a form is submitted while an earlier
// submission of the same form is still in flight.
var ErrSubmitPending = errors.New("submission already in progress")

// AuthClient is the subset of the api client the views call.
type AuthClient interface {
	Login(ctx context.Context, identifier, secret string) (*models.AuthResponse, error)
	Register(ctx context.Context, email, displayName, secret string) (json.RawMessage, error)
	Me(ctx context.Context) (*models.UserProfile, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// form holds the state every view shares: the loading flag and the last error.
type form struct {
	loading atomic.Bool
	mu      sync.Mutex
	err     string
}

// begin flips the loading flag on and clears the previous error.
// It fails with ErrSubmitPending if the flag was already on.
func (f *form) begin() error {
	if !f.loading.CompareAndSwap(false, true) {
		return ErrSubmitPending
	}
	f.setError("")
	return nil
}

func (f *form) end() {
	f.loading.Store(false)
}

// Loading reports whether a submission is in flight.
func (f *form) Loading() bool {
	return f.loading.Load()
}

// Error returns the message of the last failed submission, or "".
func (f *form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *form) setError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = msg
}

// validationMessage renders the first failed rule of a validator error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
