// Package weather reports average monthly temperatures for a city
// using a geocoding lookup followed by a climate normals query. The
// final sentence is templated, never generated.
package weather

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jocelynow/travelpal/internal/answer"
	"github.com/jocelynow/travelpal/internal/place"
)

// Geocoder resolves a city name to coordinates. ok is false when the
// place is unknown; err is reserved for transport failures.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (lat, lon float64, ok bool, err error)
}

// ClimateSource returns the mean temperature for a location and month.
// ok is false when the dataset has no value for that location.
type ClimateSource interface {
	MeanTemperature(ctx context.Context, lat, lon float64, month int) (temp float64, ok bool, err error)
}

// Tool answers temperature questions for the current month.
type Tool struct {
	geocoder  Geocoder
	climate   ClimateSource
	extractor place.Extractor
	now       func() time.Time
}

func NewTool(geocoder Geocoder, climate ClimateSource) *Tool {
	return &Tool{
		geocoder:  geocoder,
		climate:   climate,
		extractor: place.Preposition(),
		now:       time.Now,
	}
}

// Answer resolves the city in the query and reports its average
// temperature for the current month. An unknown city is an expected
// outcome and yields an apologetic envelope without touching the
// climate source.
func (t *Tool) Answer(ctx context.Context, query string) (answer.Envelope, error) {
	city, ok := t.extractor.Extract(ctx, query)
	if !ok {
		city = strings.TrimSpace(query)
	}

	lat, lon, found, err := t.geocoder.Geocode(ctx, city)
	if err != nil {
		return answer.Envelope{}, fmt.Errorf("failed to geocode %q: %w", city, err)
	}
	if !found {
		return answer.NewEnvelope(fmt.Sprintf("Sorry, I couldn't find %s.", city)), nil
	}

	month := int(t.now().Month())
	temp, present, err := t.climate.MeanTemperature(ctx, lat, lon, month)
	if err != nil {
		return answer.Envelope{}, fmt.Errorf("failed to query climate data for %q: %w", city, err)
	}
	if !present {
		return answer.NewEnvelope("Weather data unavailable."), nil
	}

	body := fmt.Sprintf("The average temperature in %s in month %d is around %s°C.",
		place.Title(city), month, strconv.FormatFloat(temp, 'f', -1, 64))
	return answer.NewEnvelope(body), nil
}
