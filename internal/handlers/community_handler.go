package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/middleware"
	"github.com/SARVESHVARADKAR123/townsquare/internal/transport"
)

type CommunityHandler struct {
	app *application.Service
}

func NewCommunityHandler(app *application.Service) *CommunityHandler {
	return &CommunityHandler{app: app}
}

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.app.ListPosts(r.Context())
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": mapSlice(posts, toPost)})
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.app.CreatePost(r.Context(), application.CreatePostCommand{
		AuthorID: middleware.UserID(r.Context()),
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, toPost(post))
}

func (h *CommunityHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.app.GetPostDetail(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toPost(post))
}

func (h *CommunityHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.app.UpdatePost(r.Context(), application.UpdatePostCommand{
		PostID:   chi.URLParam(r, "postID"),
		EditorID: middleware.UserID(r.Context()),
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toPost(post))
}

func (h *CommunityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeletePost(r.Context(), chi.URLParam(r, "postID"), middleware.UserID(r.Context())); err != nil {
		transport.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommunityHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.app.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": mapSlice(comments, toComment)})
}

func (h *CommunityHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.app.CreateComment(r.Context(), application.CreateCommentCommand{
		PostID:   chi.URLParam(r, "postID"),
		AuthorID: middleware.UserID(r.Context()),
		Body:     req.Body,
	})
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, toComment(comment))
}

func (h *CommunityHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.app.UpdateComment(r.Context(), application.UpdateCommentCommand{
		CommentID: chi.URLParam(r, "commentID"),
		EditorID:  middleware.UserID(r.Context()),
		Body:      req.Body,
	})
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toComment(comment))
}

func (h *CommunityHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeleteComment(r.Context(), chi.URLParam(r, "commentID"), middleware.UserID(r.Context())); err != nil {
		transport.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
