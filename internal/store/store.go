// Package store holds the authoritative collection of cities and their
// points of interest. Two interchangeable backends implement Repository: an
// in-memory seeded store and a PostgreSQL repository.
package store

import (
	"context"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// Repository hands out request-scoped sessions.
type Repository interface {
	Begin(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
}

// Session is a unit of work. Changes made through it become durable on Save;
// Close discards whatever was not saved and must always be called.
type Session interface {
	CityExists(ctx context.Context, cityID int) (bool, error)
	GetCities(ctx context.Context) ([]types.City, error)
	// GetCity returns ErrCityNotFound when the city does not exist.
	GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (*types.City, error)

	GetPointsOfInterestForCity(ctx context.Context, cityID int) ([]types.PointOfInterest, error)
	// GetPointOfInterestForCity returns ErrPointOfInterestNotFound when the
	// point of interest does not belong to the city.
	GetPointOfInterestForCity(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error)
	// AddPointOfInterestForCity assigns poi.ID and poi.CityID.
	AddPointOfInterestForCity(ctx context.Context, cityID int, poi *types.PointOfInterest) error
	UpdatePointOfInterest(ctx context.Context, existing *types.PointOfInterest, name string, description *string) error
	DeletePointOfInterest(ctx context.Context, existing *types.PointOfInterest) error

	Save(ctx context.Context) error
	Close(ctx context.Context) error
}
