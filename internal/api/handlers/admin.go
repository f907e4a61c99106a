package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/appshelf/appshelf/internal/api/middleware"
	"github.com/appshelf/appshelf/internal/core/auth"
	"github.com/appshelf/appshelf/internal/core/collection"
)

type AdminHandler struct {
	authService *auth.Service
	log         zerolog.Logger
}

func NewAdminHandler(authService *auth.Service, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{authService: authService, log: log}
}

// ListUsers runs the query engine over the users collection (admin only)
func (h *AdminHandler) ListUsers(c *gin.Context) {
	q, err := collection.ParseQuery(c.Request.URL.Query(), h.authService.Store().Describe())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, h.authService.ListUsers(q))
}

func (h *AdminHandler) GetUserDetail(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}

// UpdateUser changes name, avatar or status (admin only)
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req auth.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := c.Param("userId")
	user, err := h.authService.UpdateUser(c.Request.Context(), userID, &req)
	if user == nil {
		_ = c.Error(err)
		return
	}

	h.audit(c, "user.update", userID)
	respond(c, http.StatusOK, user.Profile(), err)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)
	userID := c.Param("userId")

	err := h.authService.DeleteUser(c.Request.Context(), actorID, userID)
	if err != nil && !collection.IsPersistenceError(err) {
		_ = c.Error(err)
		return
	}

	h.audit(c, "user.delete", userID)
	respond(c, http.StatusOK, gin.H{"message": "user deleted"}, err)
}

// PromoteUser grants the admin role (admin only)
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	userID := c.Param("userId")
	user, err := h.authService.Promote(c.Request.Context(), userID)
	if user == nil {
		_ = c.Error(err)
		return
	}

	h.audit(c, "user.promote", userID)
	respond(c, http.StatusOK, gin.H{"message": "user promoted to admin", "user": user.Profile()}, err)
}

// DemoteUser revokes the admin role. The last active admin cannot be demoted.
func (h *AdminHandler) DemoteUser(c *gin.Context) {
	userID := c.Param("userId")
	user, err := h.authService.Demote(c.Request.Context(), userID)
	if user == nil {
		_ = c.Error(err)
		return
	}

	h.audit(c, "user.demote", userID)
	respond(c, http.StatusOK, gin.H{"message": "admin role revoked", "user": user.Profile()}, err)
}

func (h *AdminHandler) audit(c *gin.Context, action, targetID string) {
	actorID, _ := middleware.GetUserID(c)
	h.log.Info().
		Str("action", action).
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Str("ip", middleware.GetIPAddress(c)).
		Str("user_agent", middleware.GetUserAgent(c)).
		Msg("admin action")
}
