package city

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/internal/store"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetCities(ctx context.Context) ([]types.CityWithoutPointsOfInterest, error)
	GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   store.Repository
}

func NewServiceImpl(repo store.Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) GetCities(ctx context.Context) ([]types.CityWithoutPointsOfInterest, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCities")
	defer span.End()

	session, err := s.repo.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to open store session: %w", err)
	}
	defer session.Close(ctx)

	cities, err := session.GetCities(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read cities")
		return nil, fmt.Errorf("failed to get cities: %w", err)
	}

	summaries := make([]types.CityWithoutPointsOfInterest, 0, len(cities))
	for _, c := range cities {
		summaries = append(summaries, c.ToSummary())
	}
	span.SetAttributes(attribute.Int("cities.count", len(summaries)))
	span.SetStatus(codes.Ok, "Cities retrieved")
	return summaries, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity", trace.WithAttributes(
		attribute.Int("city.id", cityID),
		attribute.Bool("include_pois", includePointsOfInterest),
	))
	defer span.End()

	session, err := s.repo.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to open store session: %w", err)
	}
	defer session.Close(ctx)

	city, err := session.GetCity(ctx, cityID, includePointsOfInterest)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "City retrieved")
	return city, nil
}
