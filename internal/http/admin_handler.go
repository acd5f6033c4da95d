package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-hub/internal/api"
	"portfolio-hub/internal/domain"
	"portfolio-hub/internal/store"
)

// AdminHandler expone las mutaciones del panel de administración sobre los
// stores sincronizados. Un fallo REST deja la lista intacta y se reporta
// en el punto de acción; nunca contamina operaciones no relacionadas.
type AdminHandler struct {
	logger   *zap.Logger
	projects *store.Store[domain.Project]
	skills   *store.Store[domain.Skill]
}

func NewAdminHandler(logger *zap.Logger, projects *store.Store[domain.Project], skills *store.Store[domain.Skill]) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		logger:   logger,
		projects: projects,
		skills:   skills,
	}
}

// Reload maneja POST /admin/reload: re-trae la verdad base de ambas
// colecciones, el camino manual de recuperación tras una desincronización.
func (h *AdminHandler) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.projects.Load(ctx); err != nil {
		h.mutationError(c, "reload projects", err)
		return
	}
	if err := h.skills.Load(ctx); err != nil {
		h.mutationError(c, "reload skills", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

// CreateProject maneja POST /admin/projects.
func (h *AdminHandler) CreateProject(c *gin.Context) {
	var req struct {
		Title        string   `json:"title" binding:"required"`
		Description  string   `json:"description"`
		Technologies []string `json:"technologies"`
		RepoURL      string   `json:"repo_url"`
		LiveURL      string   `json:"live_url"`
		ImageURL     string   `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create project request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.projects.Create(c.Request.Context(), domain.Project{
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		RepoURL:      req.RepoURL,
		LiveURL:      req.LiveURL,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.mutationError(c, "create project", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": created})
}

// UpdateProject maneja PUT /admin/projects/:id.
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	var req struct {
		Title        string   `json:"title" binding:"required"`
		Description  string   `json:"description"`
		Technologies []string `json:"technologies"`
		RepoURL      string   `json:"repo_url"`
		LiveURL      string   `json:"live_url"`
		ImageURL     string   `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update project request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.projects.Update(c.Request.Context(), c.Param("id"), domain.Project{
		ID:           c.Param("id"),
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		RepoURL:      req.RepoURL,
		LiveURL:      req.LiveURL,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.mutationError(c, "update project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": updated})
}

// DeleteProject maneja DELETE /admin/projects/:id.
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	if err := h.projects.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.mutationError(c, "delete project", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSkill maneja POST /admin/skills.
func (h *AdminHandler) CreateSkill(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
		Level    string `json:"level"`
		IconURL  string `json:"icon_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create skill request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.skills.Create(c.Request.Context(), domain.Skill{
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
		IconURL:  req.IconURL,
	})
	if err != nil {
		h.mutationError(c, "create skill", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"skill": created})
}

// UpdateSkill maneja PUT /admin/skills/:id.
func (h *AdminHandler) UpdateSkill(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
		Level    string `json:"level"`
		IconURL  string `json:"icon_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update skill request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.skills.Update(c.Request.Context(), c.Param("id"), domain.Skill{
		ID:       c.Param("id"),
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
		IconURL:  req.IconURL,
	})
	if err != nil {
		h.mutationError(c, "update skill", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skill": updated})
}

// DeleteSkill maneja DELETE /admin/skills/:id.
func (h *AdminHandler) DeleteSkill(c *gin.Context) {
	if err := h.skills.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.mutationError(c, "delete skill", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) mutationError(c *gin.Context, op string, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session invalid"})
		return
	}
	h.logger.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "backend request failed"})
}
