package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/middleware"
	"github.com/SARVESHVARADKAR123/townsquare/internal/transport"
)

type MessagingHandler struct {
	app *application.Service
}

func NewMessagingHandler(app *application.Service) *MessagingHandler {
	return &MessagingHandler{app: app}
}

func (h *MessagingHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PeerID string `json:"peer_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	conv, err := h.app.GetOrCreateConversation(r.Context(), middleware.UserID(r.Context()), req.PeerID)
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toConversation(conv))
}

func (h *MessagingHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.app.ListConversations(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"conversations": mapSlice(summaries, toSummary)})
}

func (h *MessagingHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.app.ListMessages(r.Context(), chi.URLParam(r, "conversationID"), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": mapSlice(msgs, toMessage)})
}

func (h *MessagingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.app.SendMessage(r.Context(), application.SendMessageCommand{
		ConversationID: chi.URLParam(r, "conversationID"),
		SenderID:       middleware.UserID(r.Context()),
		Body:           req.Body,
	})
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, toMessage(msg))
}

func (h *MessagingHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	pos, err := h.app.MarkConversationAsRead(r.Context(), chi.URLParam(r, "conversationID"), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toReadPosition(pos))
}

func (h *MessagingHandler) GetReadPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.app.GetReadPositions(r.Context(), chi.URLParam(r, "conversationID"), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"read_positions": mapSlice(positions, toReadPosition)})
}

func (h *MessagingHandler) GetUnreadCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.app.GetUnreadCounts(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	out := make(map[string]int, len(counts))
	for id, n := range counts {
		out[string(id)] = n
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"unread_counts": out})
}
