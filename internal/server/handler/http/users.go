package http

import (
	"net/http"

	"github.com/atinyakov/tourney/internal/middleware"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct{}

// Me handles GET /users/me. It must run behind middleware.BearerAuth.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}
