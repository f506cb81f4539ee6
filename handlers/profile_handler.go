package handlers

import (
	"blog-api/helper"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewProfileHandler(userService services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService, Helper: &helper.HTTPHelper{}}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	profile, err := h.userService.GetProfile(c.Param("username"), viewerID)
	if err != nil {
		h.Helper.SendError(c, err.Error(), h.Helper.EmptyJsonMap(), helper.StatusCode(err), `profileFailed`)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", profile)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	profile, err := h.userService.Follow(viewerID, c.Param("username"))
	if err != nil {
		h.Helper.SendError(c, err.Error(), h.Helper.EmptyJsonMap(), helper.StatusCode(err), `followFailed`)
		return
	}

	h.Helper.SendSuccess(c, "Followed", profile)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	profile, err := h.userService.Unfollow(viewerID, c.Param("username"))
	if err != nil {
		h.Helper.SendError(c, err.Error(), h.Helper.EmptyJsonMap(), helper.StatusCode(err), `unfollowFailed`)
		return
	}

	h.Helper.SendSuccess(c, "Unfollowed", profile)
}
