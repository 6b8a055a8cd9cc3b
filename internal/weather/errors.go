package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when no provider produced usable data.
	ErrNoData = errors.New("no weather data available")

	// ErrNoProviders is returned when the service has nothing to fetch from.
	ErrNoProviders = errors.New("no weather providers configured")

	// ErrNotFound is returned by stores when no data is available for a location.
	ErrNotFound = errors.New("no weather data for location")
)

// UpstreamError tags a failure of the external data source.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err originated from the data source.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
