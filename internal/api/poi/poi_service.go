package poi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-api/internal/store"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

const (
	DeletedSubject        = "Point of interest deleted."
	deletedMessagePattern = "Point of interest %s with id %d was deleted."
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for points of interest.
type Service interface {
	GetPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error)
	GetPointOfInterest(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error)
	CreatePointOfInterest(ctx context.Context, cityID int, payload types.PointOfInterestForCreation) (*types.PointOfInterest, error)
	UpdatePointOfInterest(ctx context.Context, cityID, poiID int, payload types.PointOfInterestForUpdate) error
	PatchPointOfInterest(ctx context.Context, cityID, poiID int, doc types.PatchDocument) error
	DeletePointOfInterest(ctx context.Context, cityID, poiID int) error
}

// Notifier sends a mail without blocking the caller.
type Notifier interface {
	Notify(subject, message string) uuid.UUID
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     store.Repository
	notifier Notifier
	cities   *cache.Cache
}

// NewServiceImpl wires the service. cities caches positive city lookups and may be nil.
func NewServiceImpl(repo store.Repository, notifier Notifier, cities *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
		cities:   cities,
	}
}

func (s *ServiceImpl) begin(ctx context.Context) (store.Session, func(), error) {
	session, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store session: %w", err)
	}
	return session, func() {
		if err := session.Close(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to close store session", slog.Any("error", err))
		}
	}, nil
}

// requireCity returns ErrCityNotFound unless the city exists. Cities are never
// removed through the API, so only positive answers are cached.
func (s *ServiceImpl) requireCity(ctx context.Context, session store.Session, cityID int) error {
	key := strconv.Itoa(cityID)
	if s.cities != nil {
		if _, ok := s.cities.Get(key); ok {
			return nil
		}
	}

	exists, err := session.CityExists(ctx, cityID)
	if err != nil {
		return fmt.Errorf("failed to check city %d: %w", cityID, err)
	}
	if !exists {
		return fmt.Errorf("city %d: %w", cityID, types.ErrCityNotFound)
	}
	if s.cities != nil {
		s.cities.SetDefault(key, struct{}{})
	}
	return nil
}

// save commits the session. Every failure is reported as ErrPersistence.
func (s *ServiceImpl) save(ctx context.Context, session store.Session) error {
	err := session.Save(ctx)
	if err == nil {
		return nil
	}
	s.logger.ErrorContext(ctx, "Failed to save changes", slog.Any("error", err))
	if errors.Is(err, types.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", types.ErrPersistence, err)
}

func (s *ServiceImpl) recordChange(ctx context.Context, operation string) {
	metrics.Get().PointOfInterestChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

func (s *ServiceImpl) GetPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error) {
	ctx, span := otel.Tracer("PointOfInterestService").Start(ctx, "GetPointsOfInterest", trace.WithAttributes(
		attribute.Int("city.id", cityID),
	))
	defer span.End()

	session, closeSession, err := s.begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer closeSession()

	if err = s.requireCity(ctx, session, cityID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	pois, err := session.GetPointsOfInterestForCity(ctx, cityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read points of interest")
		return nil, fmt.Errorf("failed to get points of interest for city %d: %w", cityID, err)
	}

	span.SetAttributes(attribute.Int("pois.count", len(pois)))
	span.SetStatus(codes.Ok, "Points of interest retrieved")
	return pois, nil
}

func (s *ServiceImpl) GetPointOfInterest(ctx context.Context, cityID, poiID int) (*types.PointOfInterest, error) {
	ctx, span := otel.Tracer("PointOfInterestService").Start(ctx, "GetPointOfInterest", trace.WithAttributes(
		attribute.Int("city.id", cityID),
		attribute.Int("poi.id", poiID),
	))
	defer span.End()

	session, closeSession, err := s.begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer closeSession()

	if err = s.requireCity(ctx, session, cityID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	poi, err := session.GetPointOfInterestForCity(ctx, cityID, poiID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Point of interest retrieved")
	return poi, nil
}

func (s *ServiceImpl) CreatePointOfInterest(ctx context.Context, cityID int, payload types.PointOfInterestForCreation) (*types.PointOfInterest, error) {
	ctx, span := otel.Tracer("PointOfInterestService").Start(ctx, "CreatePointOfInterest", trace.WithAttributes(
		attribute.Int("city.id", cityID),
	))
	defer span.End()

	if verr := validatePayload(types.PointOfInterestForUpdate(payload)); verr != nil {
		span.SetStatus(codes.Error, "Invalid payload")
		return nil, verr
	}

	session, closeSession, err := s.begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer closeSession()

	if err = s.requireCity(ctx, session, cityID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	poi := &types.PointOfInterest{Name: payload.Name, Description: payload.Description}
	if err = session.AddPointOfInterestForCity(ctx, cityID, poi); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to add point of interest: %w", err)
	}
	if err = s.save(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return nil, err
	}

	s.recordChange(ctx, "create")
	s.logger.InfoContext(ctx, "Point of interest created", slog.Int("cityId", cityID), slog.Int("id", poi.ID))
	span.SetAttributes(attribute.Int("poi.id", poi.ID))
	span.SetStatus(codes.Ok, "Point of interest created")
	return poi, nil
}

func (s *ServiceImpl) UpdatePointOfInterest(ctx context.Context, cityID, poiID int, payload types.PointOfInterestForUpdate) error {
	ctx, span := otel.Tracer("PointOfInterestService").Start(ctx, "UpdatePointOfInterest", trace.WithAttributes(
		attribute.Int("city.id", cityID),
		attribute.Int("poi.id", poiID),
	))
	defer span.End()

	if verr := validatePayload(payload); verr != nil {
		span.SetStatus(codes.Error, "Invalid payload")
		return verr
	}

	session, closeSession, err := s.begin(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer closeSession()

	existing, err := s.loadExisting(ctx, session, cityID, poiID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err = session.UpdatePointOfInterest(ctx, existing, payload.Name, payload.Description); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update point of interest: %w", err)
	}
	if err = s.save(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return err
	}

	s.recordChange(ctx, "update")
	span.SetStatus(codes.Ok, "Point of interest updated")
	return nil
}

func (s *ServiceImpl) PatchPointOfInterest(ctx context.Context, cityID, poiID int, doc types.PatchDocument) error {
	ctx, span := otel.Tracer("PointOfInterestService").Start(ctx, "PatchPointOfInterest", trace.WithAttributes(
		attribute.Int("city.id", cityID),
		attribute.Int("poi.id", poiID),
		attribute.Int("patch.operations", len(doc)),
	))
	defer span.End()

	session, closeSession, err := s.begin(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer closeSession()

	existing, err := s.loadExisting(ctx, session, cityID, poiID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	target := newPatchTarget(*existing)
	if verr := applyPatch(target, doc); verr != nil {
		span.SetStatus(codes.Error, "Patch could not be applied")
		return verr
	}

	patched := target.toUpdate()
	if verr := validatePayload(patched); verr != nil {
		span.SetStatus(codes.Error, "Patched point of interest is invalid")
		return verr
	}

	if err = session.UpdatePointOfInterest(ctx, existing, patched.Name, patched.Description); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to patch point of interest: %w", err)
	}
	if err = s.save(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return err
	}

	s.recordChange(ctx, "patch")
	span.SetStatus(codes.Ok, "Point of interest patched")
	return nil
}

func (s *ServiceImpl) DeletePointOfInterest(ctx context.Context, cityID, poiID int) error {
	ctx, span := otel.Tracer("PointOfInterestService").Start(ctx, "DeletePointOfInterest", trace.WithAttributes(
		attribute.Int("city.id", cityID),
		attribute.Int("poi.id", poiID),
	))
	defer span.End()

	session, closeSession, err := s.begin(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer closeSession()

	existing, err := s.loadExisting(ctx, session, cityID, poiID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err = session.DeletePointOfInterest(ctx, existing); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete point of interest: %w", err)
	}
	if err = s.save(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return err
	}

	s.recordChange(ctx, "delete")
	if s.notifier != nil {
		id := s.notifier.Notify(DeletedSubject, fmt.Sprintf(deletedMessagePattern, existing.Name, existing.ID))
		span.SetAttributes(attribute.String("notification.id", id.String()))
	}
	span.SetStatus(codes.Ok, "Point of interest deleted")
	return nil
}

func (s *ServiceImpl) loadExisting(ctx context.Context, session store.Session, cityID, poiID int) (*types.PointOfInterest, error) {
	if err := s.requireCity(ctx, session, cityID); err != nil {
		return nil, err
	}
	return session.GetPointOfInterestForCity(ctx, cityID, poiID)
}
