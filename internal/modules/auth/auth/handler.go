package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/middleware"
	"github.com/portal-berita/core/internal/modules/auth/user"
	"github.com/portal-berita/core/internal/pkg/params"
	"github.com/portal-berita/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts register and login publicly and the rest behind
// authMW. The profile is also served at /user/profile, next to the /user
// routes of the user module.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)

	authed := rg.Group("", authMW)
	authed.POST("/logout", h.logout)
	authed.POST("/logout/others", h.logoutOthers)
	authed.GET("/sessions", h.sessions)
	for _, path := range []string{"/profile", "/user/profile"} {
		authed.GET(path, h.profile)
		authed.PUT(path, h.updateProfile)
		authed.PATCH(path, h.updateProfile)
	}
}

func client(c *gin.Context) Client {
	return Client{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func (h *Handler) register(c *gin.Context) {
	var in user.CreateInput
	if !params.JSON(c, &in) {
		return
	}
	tok, err := h.svc.Register(c.Request.Context(), in, client(c))
	if err != nil {
		response.Error(c, err, "")
		return
	}
	response.Created(c, "Registered", tok)
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if !params.JSON(c, &in) {
		return
	}
	tok, err := h.svc.Login(c.Request.Context(), in, client(c))
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.UnauthorizedMsg(c, msgBadCredentials)
		return
	}
	if err != nil {
		response.Error(c, err, "")
		return
	}
	response.OK(c, "Logged in", tok)
}

func (h *Handler) logout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil {
		response.Error(c, err, "Session not found")
		return
	}
	response.OK(c, "Logged out", nil)
}

func (h *Handler) logoutOthers(c *gin.Context) {
	err := h.svc.LogoutOthers(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil {
		response.Error(c, err, "")
		return
	}
	response.OK(c, "Other sessions logged out", nil)
}

func (h *Handler) sessions(c *gin.Context) {
	sessions, err := h.svc.Sessions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err, "")
		return
	}
	current := middleware.CurrentSessionID(c)
	items := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionResponse{
			ID:        s.ID,
			IP:        s.IP,
			UA:        s.UA,
			Current:   s.ID == current,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	response.OK(c, "Session list", items)
}

func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.Profile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err, "User not found")
		return
	}
	response.OK(c, "Profile", u)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in user.UpdateInput
	if !params.JSON(c, &in) {
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		response.Error(c, err, "User not found")
		return
	}
	response.OK(c, "Profile updated", u)
}
