package handler

import (
	"net/http"

	"aihub-backend/internal/model"
	"aihub-backend/internal/prefs"

	"github.com/gin-gonic/gin"
)

type PrefsHandler struct {
	store *prefs.Store
}

func NewPrefsHandler(store *prefs.Store) *PrefsHandler {
	return &PrefsHandler{
		store: store,
	}
}

func (h *PrefsHandler) GetDeveloperMode(c *gin.Context) {
	enabled, err := h.store.DeveloperMode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

func (h *PrefsHandler) SetDeveloperMode(c *gin.Context) {
	var req model.DeveloperModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SetDeveloperMode(*req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}
