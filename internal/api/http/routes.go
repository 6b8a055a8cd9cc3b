package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-insights/internal/advisor"
	"github.com/i474232898/weather-insights/internal/common"
	"github.com/i474232898/weather-insights/internal/geocode"
	"github.com/i474232898/weather-insights/internal/insights"
	"github.com/i474232898/weather-insights/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the feature handlers into the Fiber app. resolver may
// be nil, in which case requests must pass coordinates.
func RegisterRoutes(app *fiber.App, svc *insights.Service, resolver geocode.Resolver) {
	h := &handlers{svc: svc, resolver: resolver}
	v1 := app.Group("/api/v1")

	v1.Get("/hyper-local", h.hyperLocal)
	v1.Get("/health-alerts", h.health)
	v1.Get("/clothing", h.clothing)
	v1.Get("/historical-trends", h.historicalTrends)
	v1.Get("/commute", h.commute)
	v1.Get("/gardening", h.gardening)
	v1.Get("/trip-planner", h.tripPlanner)
	v1.Get("/notifications", h.notifications)
}

type handlers struct {
	svc      *insights.Service
	resolver geocode.Resolver
}

func (h *handlers) hyperLocal(c *fiber.Ctx) error {
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	report, err := h.svc.HyperLocal(c.UserContext(), loc)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) health(c *fiber.Ctx) error {
	var q profileQuery
	if err := q.bind(c); err != nil {
		return err
	}
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	report, err := h.svc.Health(c.UserContext(), insights.HealthRequest{
		Location:   loc,
		AgeGroup:   advisor.ParseAgeGroup(q.AgeGroup),
		Conditions: q.Conditions,
	})
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) clothing(c *fiber.Ctx) error {
	var q profileQuery
	if err := q.bind(c); err != nil {
		return err
	}
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	report, err := h.svc.Clothing(c.UserContext(), insights.ClothingRequest{
		Location: loc,
		Gender:   advisor.ParseGender(q.Gender),
		Activity: advisor.ParseActivity(q.Activity),
	})
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) historicalTrends(c *fiber.Ctx) error {
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	report, err := h.svc.HistoricalTrends(c.UserContext(), loc)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) commute(c *fiber.Ctx) error {
	start, err := h.location(c, "start_")
	if err != nil {
		return err
	}
	end, err := h.location(c, "end_")
	if err != nil {
		return err
	}
	report, err := h.svc.Commute(c.UserContext(), insights.CommuteRequest{
		Start:         start,
		End:           end,
		DepartureTime: c.Query("departure_time"),
	})
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) gardening(c *fiber.Ctx) error {
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	report, err := h.svc.Gardening(c.UserContext(), loc)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) tripPlanner(c *fiber.Ctx) error {
	q := tripQuery{StartDate: c.Query("start_date"), EndDate: c.Query("end_date")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage("", err))
	}
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	report, err := h.svc.TripPlan(c.UserContext(), insights.TripRequest{
		Location:  loc,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) notifications(c *fiber.Ctx) error {
	loc, err := h.location(c, "")
	if err != nil {
		return err
	}
	notes, err := h.svc.Notifications(c.UserContext(), loc)
	if err != nil {
		return err
	}
	return c.JSON(notes)
}

// location reads <prefix>lat and <prefix>lon, or <prefix>city and
// <prefix>country which are resolved through the geocoder.
func (h *handlers) location(c *fiber.Ctx, prefix string) (weather.Location, error) {
	city := strings.TrimSpace(c.Query(prefix + "city"))
	country := strings.TrimSpace(c.Query(prefix + "country"))

	lat, err := queryFloat(c, prefix+"lat")
	if err != nil {
		return weather.Location{}, err
	}
	lon, err := queryFloat(c, prefix+"lon")
	if err != nil {
		return weather.Location{}, err
	}

	switch {
	case lat != nil && lon != nil:
		q := coordinates{Lat: *lat, Lon: *lon}
		if err := validate.Struct(q); err != nil {
			return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, validationMessage(prefix, err))
		}
		return weather.Location{Name: city, Lat: q.Lat, Lon: q.Lon}, nil
	case lat != nil || lon != nil:
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%slat and %slon must be given together", prefix, prefix))
	case city == "":
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%slat and %slon, or %scity, are required", prefix, prefix, prefix))
	}
	return h.resolve(c.UserContext(), prefix, city, country)
}

func (h *handlers) resolve(ctx context.Context, prefix, city, country string) (weather.Location, error) {
	if h.resolver == nil {
		return weather.Location{}, &insights.InputError{Field: prefix + "city", Reason: "place lookup is not configured; pass coordinates"}
	}
	loc, err := h.resolver.Resolve(ctx, city, country)
	if errors.Is(err, geocode.ErrUnknownPlace) {
		return weather.Location{}, &insights.InputError{Field: prefix + "city", Reason: fmt.Sprintf("unknown place %q", city)}
	}
	if err != nil {
		return weather.Location{}, &weather.UpstreamError{Op: "geocode", Err: err}
	}
	return loc, nil
}

// coordinates holds a point given as query parameters.
type coordinates struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: not a number", key))
	}
	return &v, nil
}

// profileQuery holds the user-profile parameters shared by the health and
// clothing endpoints.
type profileQuery struct {
	Gender     string `validate:"omitempty,oneof=male female neutral"`
	Activity   string `validate:"omitempty,oneof=casual work sport formal"`
	AgeGroup   string `validate:"omitempty,oneof=child adult senior elderly"`
	Conditions []string
}

func (p *profileQuery) bind(c *fiber.Ctx) error {
	p.Gender = strings.ToLower(strings.TrimSpace(c.Query("gender")))
	p.Activity = strings.ToLower(strings.TrimSpace(c.Query("activity")))
	p.AgeGroup = strings.ToLower(strings.TrimSpace(c.Query("age_group")))
	p.Conditions = common.SplitList(c.Query("conditions"))

	if err := validate.Struct(p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage("", err))
	}
	return nil
}

// tripQuery holds the trip window; dates are YYYY-MM-DD.
type tripQuery struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

// validationMessage turns validator errors into "field failed rule" text.
func validationMessage(prefix string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s%s failed %s=%s", prefix, toSnake(fe.Field()), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s%s failed %s", prefix, toSnake(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
