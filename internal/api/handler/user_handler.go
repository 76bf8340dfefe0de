package handler

import (
	"encoding/json"
	"net/http"

	"algopulse/internal/api/middleware"
	"algopulse/internal/app/service"
	"algopulse/internal/common"

	"github.com/go-chi/chi/v5"
)

// UserHandler covers profile, sync trigger, leaderboard, hall of fame and
// the admin user-management endpoints.
type UserHandler struct {
	userService   *service.UserService
	syncService   *service.SyncService
	winnerService *service.WinnerService
}

func NewUserHandler(
	userService *service.UserService,
	syncService *service.SyncService,
	winnerService *service.WinnerService,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		syncService:   syncService,
		winnerService: winnerService,
	}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	// Public
	r.Get("/leaderboard", h.leaderboard)
	r.Get("/hall-of-fame", h.hallOfFame)

	// Authenticated
	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Get("/profile", h.profile)
		auth.Get("/sync", h.syncStats)
		auth.Post("/update-avatar", h.updateAvatar)

		// Admin
		auth.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminOnly)
			admin.Put("/reset-points", h.resetPoints)
			admin.Post("/declare-winner", h.declareWinner)
			admin.Delete("/winner/{winnerID}", h.deleteWinner)
			admin.Delete("/{userID}", h.deleteUser)
		})
	})
}

func (h *UserHandler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

// syncStats triggers an on-demand LeetCode sync for the caller's profile.
func (h *UserHandler) syncStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	user, err := h.syncService.SyncUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "SYNC_SUCCESS",
		"user":   user,
	})
}

func (h *UserHandler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	var req service.UpdateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.userService.UpdateAvatar(r.Context(), userID, req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Avatar updated")
}

func (h *UserHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.userService.Leaderboard(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *UserHandler) hallOfFame(w http.ResponseWriter, r *http.Request) {
	winners, err := h.winnerService.HallOfFame(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, winners)
}

func (h *UserHandler) declareWinner(w http.ResponseWriter, r *http.Request) {
	winner, err := h.winnerService.DeclareWeeklyWinner(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, winner)
}

func (h *UserHandler) deleteWinner(w http.ResponseWriter, r *http.Request) {
	if err := h.winnerService.DeleteWinner(r.Context(), chi.URLParam(r, "winnerID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Winner entry removed")
}

func (h *UserHandler) resetPoints(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.ResetAllPoints(r.Context()); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Seasonal reset complete")
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "User removed")
}
