package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/model"
)

type mockPriceRepo struct {
	points []model.PricePoint
}

func (m *mockPriceRepo) RecentPrices(_ context.Context, _, _ string, limit int) ([]model.PricePoint, error) {
	if len(m.points) > limit {
		return m.points[:limit], nil
	}
	return m.points, nil
}

// pricePoints builds a newest-first series from oldest-first values.
func pricePoints(values ...float64) []model.PricePoint {
	points := make([]model.PricePoint, 0, len(values))
	now := time.Now()
	for i := len(values) - 1; i >= 0; i-- {
		points = append(points, model.PricePoint{
			Price:      decimal.NewFromFloat(values[i]),
			RecordedAt: now.Add(-time.Duration(len(values)-1-i) * 24 * time.Hour),
		})
	}
	return points
}

func TestPredictionService_Predict_RisingTrend(t *testing.T) {
	// Newest-first the series reads 30,29,..,25, a slope of -1 per
	// position, so the horizon extrapolation lands below the current price.
	repo := &mockPriceRepo{points: pricePoints(25, 26, 27, 28, 29, 30)}
	svc := NewPredictionService(repo)

	pred, err := svc.Predict(context.Background(), dto.PricePredictionRequest{
		CropName: "wheat", Location: "pune",
	})
	require.NoError(t, err)
	assert.True(t, pred.CurrentPrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "down", pred.Trend)
	assert.Negative(t, pred.Change)
	assert.GreaterOrEqual(t, pred.Confidence, 60)
	assert.LessOrEqual(t, pred.Confidence, 90)
	assert.Equal(t, "Consider selling soon.", pred.Recommendation)
}

func TestPredictionService_Predict_FlatSeries(t *testing.T) {
	repo := &mockPriceRepo{points: pricePoints(40, 40, 40, 40, 40, 40, 40)}
	svc := NewPredictionService(repo)

	pred, err := svc.Predict(context.Background(), dto.PricePredictionRequest{
		CropName: "rice", Location: "delhi",
	})
	require.NoError(t, err)
	assert.True(t, pred.PredictedPrice.Equal(decimal.NewFromInt(40)))
	assert.Zero(t, pred.Change)
	assert.Equal(t, "up", pred.Trend)
	assert.Equal(t, 70, pred.Confidence)
}

func TestPredictionService_Predict_Fallback(t *testing.T) {
	repo := &mockPriceRepo{points: pricePoints(30, 31)}
	svc := NewPredictionService(repo)

	pred, err := svc.Predict(context.Background(), dto.PricePredictionRequest{
		CropName: "unknown-crop", Location: "nowhere",
	})
	require.NoError(t, err)
	assert.True(t, pred.CurrentPrice.Equal(decimal.NewFromFloat(25.0)))
	assert.Equal(t, 60, pred.Confidence)
	assert.GreaterOrEqual(t, pred.Change, -5.0)
	assert.LessOrEqual(t, pred.Change, 8.0)
	assert.Contains(t, pred.Factors, "Limited data")
}

func TestLinearFit(t *testing.T) {
	slope, intercept := linearFit([]float64{2, 4, 6, 8})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 0.0, intercept, 1e-9)
}
