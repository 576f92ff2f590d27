package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stagelink/api/internal/models"
	"stagelink/api/internal/response"
	"stagelink/api/internal/service"
	"stagelink/api/internal/session"
	"stagelink/api/internal/store"
)

func (h HandlerSet) AdminListPending(c *gin.Context, sess session.Claims) {
	pending, err := h.auth.PendingStageManagers(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list pending failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not list pending registrations")
		return
	}

	users := make([]userResponse, 0, len(pending))
	for _, user := range pending {
		users = append(users, toUserResponse(user))
	}
	response.OK(c, http.StatusOK, gin.H{"pending": users})
}

func (h HandlerSet) AdminApproveUser(c *gin.Context, sess session.Claims) {
	userID := c.Param("id")
	if userID == "" {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "user id required")
		return
	}

	user, err := h.auth.Approve(c.Request.Context(), userID, sess.UserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		case errors.Is(err, service.ErrNotPending):
			response.Fail(c, http.StatusBadRequest, "NOT_PENDING", "user is not awaiting approval")
		default:
			h.log.Error().Err(err).Msg("approve failed")
			response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "approval failed")
		}
		return
	}

	response.OK(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type statusRequest struct {
	Status models.AccountStatus `json:"status" binding:"required"`
}

func (h HandlerSet) AdminUpdateStatus(c *gin.Context, sess session.Claims) {
	userID := c.Param("id")
	if userID == "" {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "user id required")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if !req.Status.Valid() {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", "unknown status")
		return
	}

	user, err := h.auth.UpdateStatus(c.Request.Context(), userID, req.Status, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		h.log.Error().Err(err).Msg("status update failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "status update failed")
		return
	}

	// The target's existing cookie keeps the old status until refreshed.
	response.OK(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}
