package httpapi

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/moonlight-energy/solar-dashboard/internal/render"
	"github.com/moonlight-energy/solar-dashboard/internal/solar"
	"github.com/moonlight-energy/solar-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *solar.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/overview", func(c *fiber.Ctx) error {
		return c.JSON(service.Overview())
	})

	v1.Get("/summaries", func(c *fiber.Ctx) error {
		summaries, err := service.Summaries(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(summaries)
	})

	v1.Get("/rankings", func(c *fiber.Ctx) error {
		metric, err := solar.ParseMetric(c.Query("metric", string(solar.MetricGHI)))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ranked, err := service.Rankings(c.Context(), metric)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(fiber.Map{
			"metric":  metric,
			"ranking": ranked,
		})
	})

	v1.Get("/observations", func(c *fiber.Ctx) error {
		obs, err := service.Observations(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(obs)
	})

	v1.Get("/countries", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"countries": service.Countries()})
	})

	v1.Get("/countries/:country/insights", func(c *fiber.Ctx) error {
		country, err := countryParam(c)
		if err != nil {
			return err
		}

		insights, err := service.CountryInsights(country)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no measurements for requested country")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute insights")
		}
		return c.JSON(insights)
	})

	v1.Get("/countries/:country/hourly", func(c *fiber.Ctx) error {
		country, err := countryParam(c)
		if err != nil {
			return err
		}

		measurements, err := service.Dataset(country)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no measurements for requested country")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load measurements")
		}
		return c.JSON(solar.BuildHourlyProfile(country, measurements))
	})

	v1.Get("/countries/:country/measurements", func(c *fiber.Ctx) error {
		country, err := countryParam(c)
		if err != nil {
			return err
		}

		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		measurements, err := service.MeasurementRange(country, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no measurements for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load measurements")
		}

		return c.JSON(fiber.Map{
			"country":      country,
			"from":         req.From,
			"to":           req.To,
			"measurements": measurements,
		})
	})

	v1.Get("/artifacts", func(c *fiber.Ctx) error {
		artifacts, err := renderArtifacts(c, service)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"artifacts": artifacts})
	})

	v1.Get("/artifacts/:name", func(c *fiber.Ctx) error {
		artifacts, err := renderArtifacts(c, service)
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			if a.Name == c.Params("name") {
				c.Set(fiber.HeaderContentType, a.ContentType)
				return c.Send(a.Data)
			}
		}
		return fiber.NewError(fiber.StatusNotFound, "unknown artifact")
	})

	// Rendered chart pages.
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		summaries, err := service.Summaries(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}

		page, err := render.DashboardPage(summaries, service.All())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render dashboard")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	})

	app.Get("/dashboard/trends", func(c *fiber.Ctx) error {
		page, err := render.TimeSeriesPage(service.All())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render trends")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	})
}

// renderArtifacts produces the full artifact set from the current summaries
// and measurements.
func renderArtifacts(c *fiber.Ctx, service *solar.Service) ([]render.Artifact, error) {
	summaries, err := service.Summaries(c.Context())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	artifacts, err := render.Render(summaries, service.All())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to render artifacts")
	}
	return artifacts, nil
}

// countryParam extracts and decodes the :country path parameter.
func countryParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("country")
	country, err := url.PathUnescape(raw)
	if err != nil || country == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid country")
	}
	return country, nil
}

// rangeQuery holds query parameters for the measurements endpoint.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	r.From = from
	r.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
