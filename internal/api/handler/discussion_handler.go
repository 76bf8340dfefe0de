package handler

import (
	"encoding/json"
	"net/http"

	"algopulse/internal/api/middleware"
	"algopulse/internal/app/service"
	"algopulse/internal/common"

	"github.com/go-chi/chi/v5"
)

type DiscussionHandler struct {
	discussionService *service.DiscussionService
}

func NewDiscussionHandler(ds *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{discussionService: ds}
}

func (h *DiscussionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listPosts)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createPost)
		auth.Post("/{postID}/like", h.toggleLike)
		auth.Post("/{postID}/replies", h.addReply)
		auth.Delete("/{postID}", h.deletePost)
	})
}

func (h *DiscussionHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.discussionService.ListPosts(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}

func (h *DiscussionHandler) createPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	var req service.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	post, err := h.discussionService.CreatePost(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *DiscussionHandler) toggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	post, err := h.discussionService.ToggleLike(r.Context(), chi.URLParam(r, "postID"), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *DiscussionHandler) addReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	var req service.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	post, err := h.discussionService.AddReply(r.Context(), chi.URLParam(r, "postID"), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *DiscussionHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())
	if err := h.discussionService.DeletePost(r.Context(), chi.URLParam(r, "postID"), userID, userRole); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Post removed")
}
