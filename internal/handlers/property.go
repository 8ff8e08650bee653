package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/services"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	searchService   *services.GeoSearchService
}

func NewPropertyHandler(propertyService *services.PropertyService, searchService *services.GeoSearchService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		searchService:   searchService,
	}
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.MapError(err)
	c.JSON(appErr.HTTPStatus, gin.H{
		"error": appErr.UserMessage,
		"code":  appErr.Code,
	})
}

// GetProperties godoc
// @Summary List properties with pagination
// @Description Get a paginated list of properties, optionally filtered by city, state, status or category
// @Tags Properties
// @Accept json
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination" default(10)
// @Param city query string false "Filter by city"
// @Param state query string false "Filter by state"
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Security BearerAuth
// @Success 200 {object} models.PaginatedPropertiesResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /properties [get]
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := models.ListFilter{
		City:     c.Query("city"),
		State:    c.Query("state"),
		Status:   models.Status(c.Query("status")),
		Category: models.Category(c.Query("category")),
	}

	response, err := h.propertyService.List(c.Request.Context(), filter, offset, limit, c.Request.URL.Path, c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchByRadius godoc
// @Summary Search properties within a radius
// @Description Find properties within radius_km of a point, sorted by distance
// @Tags Properties
// @Accept json
// @Produce json
// @Param lat query number true "Latitude of the search center"
// @Param lon query number true "Longitude of the search center"
// @Param radius_km query number true "Search radius in kilometers"
// @Security BearerAuth
// @Success 200 {array} models.SearchResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /properties/search [get]
func (h *PropertyHandler) SearchByRadius(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetPropertyByID godoc
// @Summary Get property by ID
// @Description Get a single property by its property ID
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Security BearerAuth
// @Success 200 {object} models.Property
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	property, err := h.propertyService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// GetPropertyByExternalID godoc
// @Summary Get property by external listing ID
// @Description Get a single property by the id assigned by the upstream listing source
// @Tags Properties
// @Accept json
// @Produce json
// @Param externalId path string true "External listing ID"
// @Security BearerAuth
// @Success 200 {object} models.Property
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/external/{externalId} [get]
func (h *PropertyHandler) GetPropertyByExternalID(c *gin.Context) {
	property, err := h.propertyService.GetByExternalID(c.Request.Context(), c.Param("externalId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// CreateProperty godoc
// @Summary Create a new property
// @Description Create a new property record
// @Tags Properties
// @Accept json
// @Produce json
// @Param property body models.Property true "Property data"
// @Security BearerAuth
// @Success 201 {object} models.Property
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.propertyService.Create(c.Request.Context(), &property); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// UpdateProperty godoc
// @Summary Update an existing property
// @Description Update a property record by its property ID
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param property body models.Property true "Property data"
// @Security BearerAuth
// @Success 200 {object} models.Property
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	property.PropertyID = c.Param("id")

	if err := h.propertyService.Update(c.Request.Context(), &property); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty godoc
// @Summary Delete a property
// @Description Delete a property and its child records by property ID
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.propertyService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPropertySales godoc
// @Summary List sale records for a property
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Security BearerAuth
// @Success 200 {array} models.Sale
// @Failure 401 {object} map[string]string
// @Router /properties/{id}/sales [get]
func (h *PropertyHandler) GetPropertySales(c *gin.Context) {
	sales, err := h.propertyService.GetSales(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GetPropertyMaintenance godoc
// @Summary List maintenance records for a property
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Security BearerAuth
// @Success 200 {array} models.MaintenanceRecord
// @Failure 401 {object} map[string]string
// @Router /properties/{id}/maintenance [get]
func (h *PropertyHandler) GetPropertyMaintenance(c *gin.Context) {
	records, err := h.propertyService.GetMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetPropertyDisasters godoc
// @Summary List disaster records for a property
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Security BearerAuth
// @Success 200 {array} models.DisasterRecord
// @Failure 401 {object} map[string]string
// @Router /properties/{id}/disasters [get]
func (h *PropertyHandler) GetPropertyDisasters(c *gin.Context) {
	records, err := h.propertyService.GetDisasters(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
