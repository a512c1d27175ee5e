package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvisoryService_WeatherAdvice(t *testing.T) {
	svc := NewAdvisoryService()
	advice := svc.WeatherAdvice()
	assert.Contains(t, weatherAdvisories, advice)
}

func TestAdvisoryService_CropRecommendation(t *testing.T) {
	svc := NewAdvisoryService()

	assert.Equal(t, cropRecommendations["clay-winter"], svc.CropRecommendation("Clay", "Winter"))
	assert.Equal(t, cropRecommendations["loamy-summer"], svc.CropRecommendation("loamy", "SUMMER"))
	assert.Equal(t, defaultCropAdvice, svc.CropRecommendation("rocky", "winter"))
}
