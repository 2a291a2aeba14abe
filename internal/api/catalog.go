package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Denis-Shtanskiy/foodgram/internal/models"
	"github.com/Denis-Shtanskiy/foodgram/internal/service"
)

// CatalogHandler serves the tag and ingredient reference data.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// SearchIngredients filters the catalog by the "name" query parameter;
// prefix matches come before contains-only matches.
func (h *CatalogHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.catalog.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}
	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := &models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if tag.Color == "" {
		tag.Color = "#000000"
	}
	if err := h.catalog.CreateTag(c.Request.Context(), tag); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredient := &models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := h.catalog.CreateIngredient(c.Request.Context(), ingredient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}
