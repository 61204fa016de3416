package search

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

const (
	placeholderDelay  = 1000 * time.Millisecond
	placeholderJitter = 0.05
)

var placeholderPlaces = []models.Place{
	{
		Title:    "No Frills",
		Summary:  "A budget-friendly supermarket in Toronto with great weekly deals.",
		Product:  "Organic Milk",
		Price:    "$4.50/carton",
		Category: models.CategoryGroceries,
		URI:      "https://maps.google.com/?q=No+Frills+Toronto",
	},
	{
		Title:    "Loblaws City Market",
		Summary:  "Premium grocery store with organic selection and prepared foods.",
		Product:  "Organic Bread",
		Price:    "$3.99/loaf",
		Category: models.CategoryGroceries,
		URI:      "https://maps.google.com/?q=Loblaws+Toronto",
	},
	{
		Title:    "Petro-Canada",
		Summary:  "Gas station with competitive fuel prices and convenience store.",
		Product:  "Regular Gas",
		Price:    "$1.45/L",
		Category: models.CategoryGas,
		URI:      "https://maps.google.com/?q=Petro+Canada+Toronto",
	},
}

// placeholderSource serves canned places when no provider API key is configured.
type placeholderSource struct {
	delay time.Duration
	rand  func() float64
}

func newPlaceholderSource() *placeholderSource {
	return &placeholderSource{delay: placeholderDelay, rand: rand.Float64}
}

// Places scatters the canned records around the search center after the fixed delay.
func (p *placeholderSource) Places(ctx context.Context, mode models.LocationMode) ([]models.Place, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	center := mode.Center()
	places := make([]models.Place, len(placeholderPlaces))
	for i, place := range placeholderPlaces {
		place.Location = models.Coordinate{
			Latitude:  center.Latitude + (p.rand()-0.5)*placeholderJitter,
			Longitude: center.Longitude + (p.rand()-0.5)*placeholderJitter,
		}
		places[i] = place
	}
	return places, nil
}
