package handlers

import (
	"net/http"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/middleware"
	"github.com/SARVESHVARADKAR123/townsquare/internal/transport"
)

type ProfileHandler struct {
	app *application.Service
}

func NewProfileHandler(app *application.Service) *ProfileHandler {
	return &ProfileHandler{app: app}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.app.GetProfile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toUser(user))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname  *string `json:"nickname"`
		AvatarURL *string `json:"avatar_url"`
	}
	if !decode(w, r, &req) {
		return
	}

	user, err := h.app.UpdateProfile(r.Context(), application.UpdateProfileCommand{
		UserID:    middleware.UserID(r.Context()),
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toUser(user))
}
