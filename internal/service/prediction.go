package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

const (
	predictionHistoryDays = 30
	predictionHorizonDays = 30
	minHistoryPoints      = 5
	fallbackBasePrice     = 25.0
)

// PredictionService fits a least-squares line over recent market prices and
// extrapolates it one month out. With too little history it falls back to a
// low-confidence synthetic estimate.
type PredictionService struct {
	priceRepo repository.PriceHistoryRepository
}

func NewPredictionService(priceRepo repository.PriceHistoryRepository) *PredictionService {
	return &PredictionService{priceRepo: priceRepo}
}

func (s *PredictionService) Predict(ctx context.Context, req dto.PricePredictionRequest) (*dto.PricePrediction, error) {
	points, err := s.priceRepo.RecentPrices(ctx, req.CropName, req.Location, predictionHistoryDays)
	if err != nil {
		return nil, fmt.Errorf("recent prices: %w", err)
	}

	if len(points) < minHistoryPoints {
		return fallbackPrediction(), nil
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i], _ = p.Price.Float64()
	}

	slope, intercept := linearFit(prices)

	n := float64(len(prices))
	current := prices[0]
	predicted := intercept + slope*(n+predictionHorizonDays)
	change := (predicted - current) / current * 100

	confidence := math.Min(90, math.Max(60, 70+math.Abs(slope)*20))

	return &dto.PricePrediction{
		CurrentPrice:   decimal.NewFromFloat(current).Round(2),
		PredictedPrice: decimal.NewFromFloat(predicted).Round(2),
		Change:         math.Round(change*100) / 100,
		Trend:          trendOf(change),
		Confidence:     int(math.Round(confidence)),
		Recommendation: recommendationOf(change),
		Factors:        []string{"Seasonal trends", "Market demand", "Supply fluctuations"},
	}, nil
}

// linearFit returns the least-squares slope and intercept of prices against
// positions 1..n.
func linearFit(prices []float64) (slope, intercept float64) {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range prices {
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func fallbackPrediction() *dto.PricePrediction {
	change := float64(rand.Intn(14) - 5) // -5% .. +8%
	predicted := fallbackBasePrice * (1 + change/100)

	return &dto.PricePrediction{
		CurrentPrice:   decimal.NewFromFloat(fallbackBasePrice),
		PredictedPrice: decimal.NewFromFloat(predicted).Round(2),
		Change:         change,
		Trend:          trendOf(change),
		Confidence:     60,
		Recommendation: recommendationOf(change),
		Factors:        []string{"Limited data", "Market volatility"},
	}
}

func trendOf(change float64) string {
	if change >= 0 {
		return "up"
	}
	return "down"
}

func recommendationOf(change float64) string {
	switch {
	case change > 5:
		return "Wait to sell - prices are expected to rise."
	case change > 0:
		return "Good time to sell."
	default:
		return "Consider selling soon."
	}
}
