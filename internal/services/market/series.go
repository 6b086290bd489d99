package market

import (
	"errors"
	"math"
	"time"

	"PatternPulse/internal/domain/models"
)

// SeriesLength is the fixed point count of a history series: a trailing
// daily window ending "today".
const SeriesLength = 61

const (
	dailyChangeMin = -2.0
	dailyChangeMax = 2.0

	ma20Window = 50 // MA20 present only for the newest 50 points
	ma50Window = 30 // MA50 present only for the newest 30 points

	bandWidth = 0.05 // Bollinger-like half width as a fraction of price

	seriesDateLayout = "2006-01-02"
)

// ErrInvalidStartPrice rejects non-positive or non-finite seed prices.
var ErrInvalidStartPrice = errors.New("start price must be positive and finite")

// GenerateSeries produces a synthetic price-and-indicator series of exactly
// SeriesLength points, oldest first, seeded by startPrice.
//
// The indicator values deliberately are not real technical math and callers
// must not treat them as such: the moving averages are the current price
// perturbed by a small multiplicative noise band, the RSI is a sine
// oscillation plus noise, and the bands are center ± price*0.05 with center
// being the MA20 when present, else the raw price.
func GenerateSeries(startPrice float64, src Source) ([]models.ChartPoint, error) {
	return generateSeries(startPrice, src, time.Now())
}

func generateSeries(startPrice float64, src Source, now time.Time) ([]models.ChartPoint, error) {
	if startPrice <= 0 || math.IsInf(startPrice, 0) || math.IsNaN(startPrice) {
		return nil, ErrInvalidStartPrice
	}

	points := make([]models.ChartPoint, 0, SeriesLength)
	price := startPrice

	for i := SeriesLength - 1; i >= 0; i-- {
		label := now.AddDate(0, 0, -i).Format(seriesDateLayout)

		change := floatBetween(src, dailyChangeMin, dailyChangeMax, 2)
		price = price * (1 + change/100)

		rsi := 50 + math.Sin(float64(i)*0.5)*20 + (src.Float64()*10 - 5)

		var ma20, ma50 *float64
		if i < ma20Window {
			v := round(price*(1+(src.Float64()*0.05-0.025)), 2)
			ma20 = &v
		}
		if i < ma50Window {
			v := round(price*(1+(src.Float64()*0.1-0.05)), 2)
			ma50 = &v
		}

		center := price
		if ma20 != nil {
			center = *ma20
		}
		halfWidth := price * bandWidth

		points = append(points, models.ChartPoint{
			Time:    label,
			Price:   round(price, 2),
			MA20:    ma20,
			MA50:    ma50,
			RSI:     round(rsi, 2),
			BBUpper: round(center+halfWidth, 2),
			BBLower: round(center-halfWidth, 2),
		})
	}
	return points, nil
}
