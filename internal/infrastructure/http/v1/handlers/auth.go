package handlers

import (
	"github.com/gin-gonic/gin"

	"stockflow/internal/domain/auth"
)

// AuthHandler handles admin authentication.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var creds auth.Credentials
	if !h.BindJSON(c, &creds) {
		return
	}

	token, err := h.service.Login(ctx, creds)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, token)
}
