package handlers

import (
	"strconv"

	"blog-api/helper"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
	Helper              *helper.HTTPHelper
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, Helper: &helper.HTTPHelper{}}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	notifications, err := h.notificationService.GetForUser(userID)
	if err != nil {
		h.Helper.SendError(c, err.Error(), h.Helper.EmptyJsonMap(), helper.StatusCode(err), `notificationsFailed`)
		return
	}

	h.Helper.SendSuccess(c, "Success", notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid notification ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.notificationService.MarkRead(uint(id), userID); err != nil {
		h.Helper.SendError(c, err.Error(), h.Helper.EmptyJsonMap(), helper.StatusCode(err), `notificationsFailed`)
		return
	}

	h.Helper.SendSuccess(c, "Notification marked as read", h.Helper.EmptyJsonMap())
}
