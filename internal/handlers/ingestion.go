package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeradar-properties/internal/ingestion"
	"homeradar-properties/internal/models"
)

type IngestionHandler struct {
	pipeline *ingestion.Pipeline
}

func NewIngestionHandler(pipeline *ingestion.Pipeline) *IngestionHandler {
	return &IngestionHandler{pipeline: pipeline}
}

// IngestListings godoc
// @Summary Ingest a batch of external listings
// @Description Normalize and store new listings, skipping duplicates. Returns per-batch counters.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param listings body []models.ExternalListing true "Raw listing records"
// @Security BearerAuth
// @Success 200 {object} models.IngestionSummary
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /ingestion/listings [post]
func (h *IngestionHandler) IngestListings(c *gin.Context) {
	var listings []models.ExternalListing
	if err := c.ShouldBindJSON(&listings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.pipeline.Ingest(c.Request.Context(), listings)
	if err != nil {
		// Deadline hit mid-batch; report what was processed.
		c.JSON(http.StatusOK, gin.H{
			"summary": summary,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}
