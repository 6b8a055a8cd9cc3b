package insights

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// ErrInvalidInput is matched by every *InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a malformed request field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func validateCoordinates(prefix string, loc weather.Location) error {
	if math.IsNaN(loc.Lat) || loc.Lat < -90 || loc.Lat > 90 {
		return &InputError{Field: prefix + "lat", Reason: "must be between -90 and 90"}
	}
	if math.IsNaN(loc.Lon) || loc.Lon < -180 || loc.Lon > 180 {
		return &InputError{Field: prefix + "lon", Reason: "must be between -180 and 180"}
	}
	return nil
}

func parseDate(field, s string, tz *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, tz)
	if err != nil {
		return time.Time{}, &InputError{Field: field, Reason: "use YYYY-MM-DD"}
	}
	return t, nil
}

var departureLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseDeparture(s string, tz *time.Location) (time.Time, error) {
	for _, layout := range departureLayouts {
		if t, err := time.ParseInLocation(layout, s, tz); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InputError{Field: "departure_time", Reason: "use RFC 3339, e.g. 2024-06-01T08:30:00Z"}
}

// upstream tags err as a data source failure unless it already is one.
func upstream(op string, err error) error {
	if err == nil || weather.IsUpstream(err) {
		return err
	}
	return &weather.UpstreamError{Op: op, Err: err}
}
