package httpx

import (
	"net/http"

	"github.com/northwind/storefront/internal/domain/auth"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Services *RouterServices
}

// sessionView is the JSON shape of the session state returned to the browser.
type sessionView struct {
	Authenticated bool       `json:"authenticated"`
	Initialized   bool       `json:"initialized"`
	User          *auth.User `json:"user,omitempty"`
}

// Login handles credential sign-in.
// POST /api/auth/login {"username":..., "password":...}.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}

	s := h.Services.scope(r)
	user, err := s.session.Login(r.Context(), creds)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	// Load the signed-in user's cart eagerly so the response reflects any
	// snapshot migrated from the anonymous bucket.
	s.cart.RehydrateForActiveUser(r.Context())

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": s.session.Token(),
	})
}

// Register handles account creation.
// POST /api/auth/register. Answers 200 when the account was created and
// signed in, 202 when the remote store created the account without issuing
// credentials.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var reg auth.Registration
	if !DecodeJSON(w, r, &reg) {
		return
	}

	s := h.Services.scope(r)
	result, err := s.session.Register(r.Context(), reg)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if !result.SignedIn {
		WriteJSON(w, http.StatusAccepted, map[string]any{
			"user":    result.User,
			"message": "account created; sign in to continue",
		})
		return
	}

	s.cart.RehydrateForActiveUser(r.Context())

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  result.User,
		"token": result.Token,
	})
}

// Logout handles sign-out.
// POST /api/auth/logout. The outgoing identity's stored cart is purged
// first, while the session record still names that identity; then the
// session itself is cleared.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)

	s.cart.PurgeStored(r.Context())
	s.session.Logout(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// Session reports the current authentication state, restoring it from the
// stored token first when needed.
// GET /api/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)
	s.session.InitializeFromStorage(r.Context())

	WriteJSON(w, http.StatusOK, sessionView{
		Authenticated: s.session.Status() == auth.StatusAuthenticated,
		Initialized:   s.session.Initialized(),
		User:          s.session.CurrentUser(),
	})
}
