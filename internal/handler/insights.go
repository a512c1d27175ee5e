package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/middleware"
	"github.com/farmconnect/farmconnect-api/internal/service"
)

// InsightsHandler serves dashboard stats, price predictions, and
// farming advisory endpoints.
type InsightsHandler struct {
	analyticsService  *service.AnalyticsService
	predictionService *service.PredictionService
	advisoryService   *service.AdvisoryService
}

func NewInsightsHandler(
	analyticsService *service.AnalyticsService,
	predictionService *service.PredictionService,
	advisoryService *service.AdvisoryService,
) *InsightsHandler {
	return &InsightsHandler{
		analyticsService:  analyticsService,
		predictionService: predictionService,
		advisoryService:   advisoryService,
	}
}

func (h *InsightsHandler) FarmerStats(c *gin.Context) {
	stats, err := h.analyticsService.FarmerStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InsightsHandler) BuyerStats(c *gin.Context) {
	stats, err := h.analyticsService.BuyerStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InsightsHandler) PredictPrice(c *gin.Context) {
	var req dto.PricePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := h.predictionService.Predict(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, prediction)
}

func (h *InsightsHandler) WeatherAdvice(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WeatherAdviceResponse{Advice: h.advisoryService.WeatherAdvice()})
}

func (h *InsightsHandler) CropRecommendation(c *gin.Context) {
	var req dto.CropRecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.CropRecommendationResponse{
		Recommendation: h.advisoryService.CropRecommendation(req.SoilType, req.Season),
	})
}
