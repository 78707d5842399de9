package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/session"
	"github.com/dematic-gent/prodreg/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BadgeLoginRequest represents a badge scan login
type BadgeLoginRequest struct {
	BadgeID string `json:"badgeId"`
}

// login handles email and password login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	identity, err := r.session.Login(req.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	r.respondWithTokens(w, identity)
}

// badgeLogin handles login from a badge scan
func (r *Router) badgeLogin(w http.ResponseWriter, req *http.Request) {
	var badgeReq BadgeLoginRequest
	if err := json.NewDecoder(req.Body).Decode(&badgeReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	identity, err := r.session.LoginWithBadge(req.Context(), strings.TrimSpace(badgeReq.BadgeID))
	if err != nil {
		if errors.Is(err, gateway.ErrUnknownBadge) {
			respondError(w, http.StatusUnauthorized, "Badge niet gekoppeld aan een gebruiker")
			return
		}
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	r.respondWithTokens(w, identity)
}

// currentSession recovers a session from a still-valid token.
func (r *Router) currentSession(w http.ResponseWriter, req *http.Request) {
	token := bearerToken(req)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}
	identity, err := r.session.Recover(req.Context(), token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	// Role and display name come from the request's own identity, not
	// from whichever login the shared controller saw last.
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":        identity,
		"displayName": session.DisplayName(identity),
		"role":        session.RoleOf(identity, r.stores.Users.Current()),
	})
}

// logout ends the session; the token simply stops being used.
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	r.session.Logout(req.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (r *Router) respondWithTokens(w http.ResponseWriter, identity *gateway.Identity) {
	user := models.User{
		ID:    identity.UserID,
		Email: identity.Email,
		Name:  identity.Name,
		Role:  identity.Role,
	}
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user":        identity,
		"displayName": session.DisplayName(identity),
	})
}

func bearerToken(req *http.Request) string {
	parts := strings.Split(req.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
