package handler

import (
	"net/http"

	"aihub-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListModels(c *gin.Context) {
	models := h.catalogService.ListModels(
		c.Query("q"),
		c.Query("category"),
		c.Query("provider"),
	)

	c.JSON(http.StatusOK, gin.H{
		"models": models,
		"total":  len(models),
	})
}

func (h *CatalogHandler) RecommendedModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models": h.catalogService.RecommendedModels(),
	})
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.catalogService.Categories(),
	})
}

func (h *CatalogHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.catalogService.Providers(),
	})
}

func (h *CatalogHandler) SampleQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"questions": h.catalogService.SampleQuestions(),
	})
}
