// Package auth contains the HTTP handlers for the login/logout surface.
// Same closure-factory pattern as the student handlers: the factory
// takes the verifier once at startup and returns the per-request
// handler.
package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	appauth "github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// User-facing login messages, displayed verbatim by the UI.
const (
	msgMissingCredentials = "Email et mot de passe requis"
	msgInvalidCredentials = "Email ou mot de passe incorrect"
)

// loginRequest is the expected POST /api/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
//
// Success response (200 OK):
//
//	{ "success": true, "user": { "id": 1, "name": "Omar", "email": "..." } }
//
// Error responses:
//
//	400 Bad Request   — missing email or password
//	401 Unauthorized  — unknown email OR wrong password; the message is
//	                    IDENTICAL for both so callers cannot probe which
//	                    emails have accounts
//	500 Internal      — store failure during lookup
//
// Login records nothing server-side: the client keeps its own
// "logged in" flag, per the product's (acknowledged) session model.
func Login(verifier *appauth.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if req.Email == "" || req.Password == "" {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New(msgMissingCredentials)))
			return
		}

		user, err := verifier.Verify(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, appauth.ErrInvalidCredentials) {
				slog.Info("login rejected", slog.String("email", req.Email))
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(errors.New(msgInvalidCredentials)))
				return
			}
			slog.Error("login lookup failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("login accepted", slog.Int64("user_id", user.ID))
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    user,
		})
	}
}

// Logout handles POST /api/logout. With no server-held session there is
// nothing to tear down; the endpoint exists so the client has a uniform
// acknowledgement to clear its flag against.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
