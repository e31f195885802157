package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
	"github.com/SARVESHVARADKAR123/townsquare/internal/security"
	"github.com/SARVESHVARADKAR123/townsquare/internal/transport"
)

// TokenConfig describes the access tokens issued on sign-in.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type AuthHandler struct {
	app    *application.Service
	tokens TokenConfig
}

func NewAuthHandler(app *application.Service, tokens TokenConfig) *AuthHandler {
	return &AuthHandler{app: app, tokens: tokens}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_fields", "id_token is required")
		return
	}

	user, created, err := h.app.SignIn(r.Context(), req.IDToken)
	if err != nil {
		transport.Error(w, r, err)
		return
	}

	token, err := security.GenerateAccess(h.tokens.Secret, string(user.ID()), h.tokens.Issuer, h.tokens.Audience, h.tokens.TTL)
	if err != nil {
		observability.GetLogger(r.Context()).Error("failed to issue access token", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	transport.WriteJSON(w, status, map[string]interface{}{
		"access_token": token,
		"user":         toUser(user),
	})
}
