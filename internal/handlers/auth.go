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

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	EventID     string `json:"eventId,omitempty"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		EventID:     user.EventID,
	}
}

// redirectTarget resolves where a freshly minted session should land: the
// status page for non-active accounts, otherwise the role dashboard. Shares
// the gatekeeper's mappings so login and gatekeeper can never disagree.
func redirectTarget(user models.User) string {
	if page := models.StatusPagePath(user.Status); page != "" {
		return page
	}
	return models.DashboardPath(user.Role)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "login failed")
		return
	}

	claims := session.NewClaims(user, user.EventID)
	if err := h.sessions.Issue(c, claims); err != nil {
		h.log.Error().Err(err).Msg("issue session failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not create session")
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user":       toUserResponse(user),
		"redirectTo": redirectTarget(user),
	})
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	user, err := h.auth.RegisterStageManager(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			response.Fail(c, http.StatusBadRequest, "EMAIL_TAKEN", "email already registered")
			return
		}
		h.log.Error().Err(err).Msg("registration failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "registration failed")
		return
	}

	// No session is minted here; the account stays pending until a super
	// admin approves it.
	response.OK(c, http.StatusOK, gin.H{
		"user": toUserResponse(user),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	sess := h.sessions.Current(c)
	h.sessions.Clear(c)

	if sess != nil {
		h.auth.Logout(c.Request.Context(), sess.UserID)
	}
	response.OK(c, http.StatusOK, gin.H{"loggedOut": true})
}

// Verify reports whether the presented cookie holds a valid session. A bad
// cookie and no cookie answer identically.
func (h HandlerSet) Verify(c *gin.Context) {
	sess := h.sessions.Current(c)
	if sess == nil {
		response.OK(c, http.StatusOK, gin.H{"valid": false})
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"valid":   true,
		"session": sess,
	})
}

func (h HandlerSet) Me(c *gin.Context, sess session.Claims) {
	user, err := h.auth.GetUser(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "NOT_FOUND", "user no longer exists")
			return
		}
		h.log.Error().Err(err).Msg("fetch user failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load user")
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"session": sess,
		"user":    toUserResponse(user),
	})
}

// CheckStatus compares the cookie's snapshot with the live user record so
// clients can prompt a refresh when role or status changed server-side.
func (h HandlerSet) CheckStatus(c *gin.Context, sess session.Claims) {
	user, err := h.auth.GetUser(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "NOT_FOUND", "user no longer exists")
			return
		}
		h.log.Error().Err(err).Msg("fetch user failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load user")
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"status":        user.Status,
		"sessionStatus": sess.Status,
		"stale":         user.Status != sess.Status || user.Role != sess.Role,
	})
}

// RefreshSession re-mints the cookie from the live user record. This is the
// moment role/status changes actually reach the session. Event scope is the
// one claim that can carry over: when the live record has no event, the
// cookie's eventId is kept, which can only narrow access, never widen it.
func (h HandlerSet) RefreshSession(c *gin.Context, sess session.Claims) {
	user, err := h.auth.RefreshSession(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.sessions.Clear(c)
			response.Fail(c, http.StatusNotFound, "NOT_FOUND", "user no longer exists")
			return
		}
		h.log.Error().Err(err).Msg("fetch user failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not refresh session")
		return
	}

	eventID := user.EventID
	if eventID == "" {
		eventID = sess.EventID
	}

	claims := session.NewClaims(user, eventID)
	if err := h.sessions.Issue(c, claims); err != nil {
		h.log.Error().Err(err).Msg("issue session failed")
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not refresh session")
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"session":    claims,
		"redirectTo": redirectTarget(user),
	})
}
