// Package geocode resolves place names to coordinates for requests that name
// a city instead of passing lat/lon.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-insights/internal/weather"
)

// ErrUnknownPlace is returned when no resolver knows the place.
var ErrUnknownPlace = errors.New("unknown place")

// Resolver turns a city (and optional country) into a location.
type Resolver interface {
	Resolve(ctx context.Context, city, country string) (weather.Location, error)
}

// lookupFunc matches geocoder.Geocoding.
type lookupFunc func(geocoder.Address) (geocoder.Location, error)

// GoogleResolver resolves places through the Google Geocoding API.
type GoogleResolver struct {
	lookup lookupFunc
}

// NewGoogleResolver configures the geocoder client with apiKey. The client
// keeps the key in a package variable, so only one key per process is used.
func NewGoogleResolver(apiKey string) *GoogleResolver {
	geocoder.ApiKey = apiKey
	return &GoogleResolver{lookup: geocoder.Geocoding}
}

func (g *GoogleResolver) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := g.lookup(geocoder.Address{City: city, Country: country})
		ch <- result{loc, err}
	}()

	select {
	case <-ctx.Done():
		return weather.Location{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, r.err)
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return weather.Location{}, fmt.Errorf("geocoding %q: %w", city, ErrUnknownPlace)
		}
		return weather.Location{Name: city, Lat: r.loc.Latitude, Lon: r.loc.Longitude}, nil
	}
}

// StaticResolver answers from a fixed table of well-known cities.
type StaticResolver struct {
	places map[string]weather.Location
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{places: map[string]weather.Location{
		"london":   {Name: "London", Lat: 51.5074, Lon: -0.1278},
		"new york": {Name: "New York", Lat: 40.7128, Lon: -74.0060},
		"tokyo":    {Name: "Tokyo", Lat: 35.6762, Lon: 139.6503},
		"paris":    {Name: "Paris", Lat: 48.8566, Lon: 2.3522},
		"sydney":   {Name: "Sydney", Lat: -33.8688, Lon: 151.2093},
	}}
}

func (s *StaticResolver) Resolve(_ context.Context, city, _ string) (weather.Location, error) {
	loc, ok := s.places[normalize(city)]
	if !ok {
		return weather.Location{}, fmt.Errorf("%q: %w", city, ErrUnknownPlace)
	}
	return loc, nil
}

// Chain tries each resolver in order and returns the first answer.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	var errs []error
	for _, r := range c {
		loc, err := r.Resolve(ctx, city, country)
		if err == nil {
			return loc, nil
		}
		if ctx.Err() != nil {
			return weather.Location{}, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return weather.Location{}, fmt.Errorf("%q: %w", city, ErrUnknownPlace)
	}
	return weather.Location{}, errors.Join(errs...)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
