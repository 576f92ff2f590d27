package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stagelink/api/internal/ids"
	"stagelink/api/internal/models"
	"stagelink/api/internal/rbac"
	"stagelink/api/internal/response"
	"stagelink/api/internal/session"
	"stagelink/api/internal/store"
)

func (h HandlerSet) permissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	case errors.Is(err, rbac.ErrAccountNotActive):
		response.Fail(c, http.StatusForbidden, "ACCOUNT_NOT_ACTIVE", "account is not active")
	case errors.Is(err, rbac.ErrForbidden):
		response.Fail(c, http.StatusForbidden, "FORBIDDEN", "permission denied")
	default:
		h.log.Error().Err(err).Msg("permission check failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "permission check failed")
	}
}

func (h HandlerSet) ListEvents(c *gin.Context, sess session.Claims) {
	if err := h.rbac.RequirePermission(&sess, "events", "view"); err != nil {
		h.permissionError(c, err)
		return
	}

	// Event-scoped users (artists) see only their event.
	if sess.EventID != "" {
		event, err := h.events.GetByID(c.Request.Context(), sess.EventID)
		if err != nil {
			if errors.Is(err, store.ErrEventNotFound) {
				response.OK(c, http.StatusOK, gin.H{"events": []models.Event{}})
				return
			}
			h.log.Error().Err(err).Msg("fetch scoped event failed")
			response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load events")
			return
		}
		response.OK(c, http.StatusOK, gin.H{"events": []models.Event{event}})
		return
	}

	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list events failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load events")
		return
	}
	response.OK(c, http.StatusOK, gin.H{"events": events})
}

type createEventRequest struct {
	Name     string    `json:"name" binding:"required"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"startsAt"`
}

func (h HandlerSet) CreateEvent(c *gin.Context, sess session.Claims) {
	if err := h.rbac.RequirePermission(&sess, "events", "create"); err != nil {
		h.permissionError(c, err)
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	event := models.Event{
		ID:        ids.New(),
		Name:      req.Name,
		Venue:     req.Venue,
		StartsAt:  req.StartsAt,
		CreatedBy: sess.UserID,
	}
	if err := h.events.Put(c.Request.Context(), event); err != nil {
		h.log.Error().Err(err).Msg("create event failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not create event")
		return
	}

	response.OK(c, http.StatusOK, gin.H{"event": event})
}

func (h HandlerSet) GetEvent(c *gin.Context, sess session.Claims) {
	if err := h.rbac.RequirePermission(&sess, "events", "view"); err != nil {
		h.permissionError(c, err)
		return
	}

	eventID := c.Param("id")
	if sess.EventID != "" && eventID != sess.EventID {
		response.Fail(c, http.StatusForbidden, "FORBIDDEN", "event outside session scope")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			response.Fail(c, http.StatusNotFound, "NOT_FOUND", "event not found")
			return
		}
		h.log.Error().Err(err).Msg("fetch event failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load event")
		return
	}

	response.OK(c, http.StatusOK, gin.H{"event": event})
}
