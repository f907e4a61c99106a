package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appshelf/appshelf/internal/core/collection"
)

// CatalogHandler describes the served collections so clients can build
// query forms.
type CatalogHandler struct {
	registry *collection.Registry
}

func NewCatalogHandler(registry *collection.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

func (h *CatalogHandler) List(c *gin.Context) {
	all := h.registry.All()
	out := make([]collection.Descriptor, 0, len(all))
	for _, col := range all {
		out = append(out, col.Describe())
	}
	c.JSON(http.StatusOK, gin.H{"collections": out})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	col, ok := h.registry.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
		return
	}
	c.JSON(http.StatusOK, col.Describe())
}
