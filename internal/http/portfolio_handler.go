package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-hub/internal/domain"
	"portfolio-hub/internal/store"
)

// PortfolioHandler sirve la superficie pública del portafolio desde las
// listas en memoria; nunca llama al backend dentro de un request.
type PortfolioHandler struct {
	logger   *zap.Logger
	profile  domain.Profile
	projects *store.Store[domain.Project]
	skills   *store.Store[domain.Skill]
}

func NewPortfolioHandler(
	logger *zap.Logger,
	profile domain.Profile,
	projects *store.Store[domain.Project],
	skills *store.Store[domain.Skill],
) *PortfolioHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioHandler{
		logger:   logger,
		profile:  profile,
		projects: projects,
		skills:   skills,
	}
}

// GetProfile maneja GET /api/profile.
func (h *PortfolioHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profile": h.profile})
}

// GetProjects maneja GET /api/projects.
func (h *PortfolioHandler) GetProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.projects.List()})
}

// GetSkills maneja GET /api/skills.
func (h *PortfolioHandler) GetSkills(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"skills": h.skills.List()})
}
