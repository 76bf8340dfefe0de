package handler

import (
	"encoding/json"
	"net/http"

	"algopulse/internal/api/middleware"
	"algopulse/internal/app/service"
	"algopulse/internal/common"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(ns *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listNotifications)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator)
		admin.Use(middleware.AdminOnly)
		admin.Post("/", h.broadcast)
		admin.Delete("/{notificationID}", h.deleteNotification)
	})
}

func (h *NotificationHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.ListNotifications(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) broadcast(w http.ResponseWriter, r *http.Request) {
	var req service.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	n, err := h.notificationService.Broadcast(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) deleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.DeleteNotification(r.Context(), chi.URLParam(r, "notificationID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Notification removed")
}
