package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-hub/internal/api"
	"portfolio-hub/internal/session"
)

// SessionHandler maneja login y logout del operador contra el backend.
type SessionHandler struct {
	logger *zap.Logger
	client *api.Client
	tokens session.TokenStore
}

func NewSessionHandler(logger *zap.Logger, client *api.Client, tokens session.TokenStore) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{
		logger: logger,
		client: client,
		tokens: tokens,
	}
}

// Login maneja POST /session/login: reenvía credenciales al backend y
// persiste el token emitido. Las credenciales nunca se almacenan.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tok, err := h.client.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "login unavailable"})
		return
	}

	if err := h.tokens.Save(tok); err != nil {
		h.logger.Error("token save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}

// Logout maneja POST /session/logout: purga el token local.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.tokens.Clear(); err != nil {
		h.logger.Error("token clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear session"})
		return
	}
	c.Status(http.StatusNoContent)
}
