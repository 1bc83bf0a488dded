// Package weather provides best-effort weather enrichment for events. A
// lookup either produces a short description or nothing; failures are logged
// and counted but never surface to the caller.
package weather

import (
	"context"

	"github.com/eventdeck/server/internal/metrics"
	"github.com/eventdeck/server/internal/weather/openweather"
	"github.com/rs/zerolog"
)

// Forecaster is the slice of the openweather client the service depends on.
type Forecaster interface {
	Forecast(ctx context.Context, location string) (*openweather.ForecastResponse, error)
}

// Describer is what the event lifecycle consumes.
type Describer interface {
	Describe(ctx context.Context, location string) (string, bool)
}

type Service struct {
	client Forecaster
	logger zerolog.Logger
}

func NewService(client Forecaster, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "weather").Logger(),
	}
}

// Describe looks up the forecast for location and returns the first entry's
// short description. Any failure yields ("", false) and the caller proceeds
// without weather.
func (s *Service) Describe(ctx context.Context, location string) (string, bool) {
	if s == nil || s.client == nil || location == "" {
		return "", false
	}

	forecast, err := s.client.Forecast(ctx, location)
	if err != nil {
		metrics.WeatherLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("location", location).Msg("weather lookup failed")
		return "", false
	}

	description := forecast.FirstDescription()
	if description == "" {
		metrics.WeatherLookupsTotal.WithLabelValues("miss").Inc()
		s.logger.Debug().Str("location", location).Msg("forecast had no usable entry")
		return "", false
	}

	metrics.WeatherLookupsTotal.WithLabelValues("ok").Inc()
	return description, true
}
