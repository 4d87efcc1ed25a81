package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stenolearn-backend-go/internal/content"
)

// ContentHandler serves the read-only curriculum catalog.
type ContentHandler struct{}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// ListModules handles GET /api/v1/content/modules.
func (h *ContentHandler) ListModules(c *gin.Context) {
	c.JSON(http.StatusOK, content.Modules())
}

// GetModule handles GET /api/v1/content/modules/:moduleId.
func (h *ContentHandler) GetModule(c *gin.Context) {
	moduleID := c.Param("moduleId")
	module, ok := content.ModuleByID(moduleID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Module not found"})
		return
	}
	c.JSON(http.StatusOK, module)
}

// GetModuleQuiz handles GET /api/v1/content/modules/:moduleId/quiz.
func (h *ContentHandler) GetModuleQuiz(c *gin.Context) {
	moduleID := c.Param("moduleId")
	if _, ok := content.ModuleByID(moduleID); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Module not found"})
		return
	}
	c.JSON(http.StatusOK, content.QuizForModule(moduleID))
}

// ListShortforms handles GET /api/v1/content/shortforms.
func (h *ContentHandler) ListShortforms(c *gin.Context) {
	c.JSON(http.StatusOK, content.Shortforms())
}
