package service

import (
	"math/rand"
	"strings"
)

// AdvisoryService serves the canned farming guidance shown on the farmer
// dashboard. Static content, no persistence.
type AdvisoryService struct{}

func NewAdvisoryService() *AdvisoryService { return &AdvisoryService{} }

var weatherAdvisories = []string{
	"Clear skies expected for the next 3 days. Perfect time for harvesting and field work!",
	"Light rainfall predicted. Good for newly planted crops. Ensure proper drainage in fields.",
	"Hot and dry weather coming. Increase irrigation frequency and provide shade for sensitive crops.",
	"Mixed weather patterns. Monitor soil moisture and adjust watering schedule accordingly.",
	"Windy conditions expected. Secure loose structures and check plant supports.",
}

var cropRecommendations = map[string]string{
	"clay-winter":   "Winter crops like wheat, barley, and mustard are ideal for clay soil in winter.",
	"loamy-summer":  "Summer vegetables like tomatoes, peppers, and eggplant thrive in loamy soil.",
	"sandy-monsoon": "Monsoon crops like rice, sugarcane, and pulses work well in sandy soil with good irrigation.",
}

const defaultCropAdvice = "Consider crop rotation and soil testing for optimal results."

func (s *AdvisoryService) WeatherAdvice() string {
	return weatherAdvisories[rand.Intn(len(weatherAdvisories))]
}

func (s *AdvisoryService) CropRecommendation(soilType, season string) string {
	key := strings.ToLower(soilType) + "-" + strings.ToLower(season)
	if advice, ok := cropRecommendations[key]; ok {
		return advice
	}
	return defaultCropAdvice
}
