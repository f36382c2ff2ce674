package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Session    = (*postgresSession)(nil)
)

// DB is the slice of *pgxpool.Pool the repository needs. pgxmock pools satisfy it too.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository opens one transaction per session.
type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) Begin(ctx context.Context) (Session, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return &postgresSession{tx: tx, logger: r.logger}, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pgpool.Ping(ctx)
}

type postgresSession struct {
	tx        pgx.Tx
	logger    *slog.Logger
	committed bool
}

func (s *postgresSession) startSpan(ctx context.Context, name, table string) (context.Context, trace.Span) {
	return otel.Tracer("CityInfoRepository").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", table),
	))
}

// observe records query duration and failures, and closes out the span status.
func (s *postgresSession) observe(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
		return
	}
	span.SetStatus(codes.Ok, operation+" succeeded")
}

func (s *postgresSession) CityExists(ctx context.Context, cityID int) (exists bool, err error) {
	ctx, span := s.startSpan(ctx, "CityExists", "cities")
	defer span.End()
	defer func(start time.Time) { s.observe(ctx, span, "CityExists", start, err) }(time.Now())

	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("cities").
		Where(sq.Eq{"id": cityID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build city exists query: %w", err)
	}

	if err = s.tx.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check city existence: %w", err)
	}
	return exists, nil
}

func (s *postgresSession) GetCities(ctx context.Context) (cities []types.City, err error) {
	ctx, span := s.startSpan(ctx, "GetCities", "cities")
	defer span.End()
	defer func(start time.Time) { s.observe(ctx, span, "GetCities", start, err) }(time.Now())

	query, args, err := psql.Select("id", "name", "description").
		From("cities").
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build cities query: %w", err)
	}

	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities = []types.City{}
	for rows.Next() {
		var c types.City
		if err = rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}
	return cities, nil
}

func (s *postgresSession) GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (city *types.City, err error) {
	ctx, span := s.startSpan(ctx, "GetCity", "cities")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID), attribute.Bool("include_pois", includePointsOfInterest))
	defer func(start time.Time) { s.observe(ctx, span, "GetCity", start, err) }(time.Now())

	query, args, err := psql.Select("id", "name", "description").
		From("cities").
		Where(sq.Eq{"id": cityID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build city query: %w", err)
	}

	var c types.City
	if err = s.tx.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("city %d: %w", cityID, types.ErrCityNotFound)
		}
		return nil, fmt.Errorf("failed to query city: %w", err)
	}

	if includePointsOfInterest {
		c.PointsOfInterest, err = s.queryPointsOfInterest(ctx, cityID)
		if err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (s *postgresSession) GetPointsOfInterestForCity(ctx context.Context, cityID int) (pois []types.PointOfInterest, err error) {
	ctx, span := s.startSpan(ctx, "GetPointsOfInterestForCity", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID))
	defer func(start time.Time) { s.observe(ctx, span, "GetPointsOfInterestForCity", start, err) }(time.Now())

	return s.queryPointsOfInterest(ctx, cityID)
}

func (s *postgresSession) queryPointsOfInterest(ctx context.Context, cityID int) ([]types.PointOfInterest, error) {
	query, args, err := psql.Select("id", "city_id", "name", "description").
		From("points_of_interest").
		Where(sq.Eq{"city_id": cityID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build points of interest query: %w", err)
	}

	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query points of interest: %w", err)
	}
	defer rows.Close()

	pois := []types.PointOfInterest{}
	for rows.Next() {
		var p types.PointOfInterest
		if err := rows.Scan(&p.ID, &p.CityID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan point of interest row: %w", err)
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating point of interest rows: %w", err)
	}
	return pois, nil
}

func (s *postgresSession) GetPointOfInterestForCity(ctx context.Context, cityID, poiID int) (poi *types.PointOfInterest, err error) {
	ctx, span := s.startSpan(ctx, "GetPointOfInterestForCity", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID), attribute.Int("poi.id", poiID))
	defer func(start time.Time) { s.observe(ctx, span, "GetPointOfInterestForCity", start, err) }(time.Now())

	query, args, err := psql.Select("id", "city_id", "name", "description").
		From("points_of_interest").
		Where(sq.Eq{"city_id": cityID, "id": poiID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build point of interest query: %w", err)
	}

	var p types.PointOfInterest
	if err = s.tx.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CityID, &p.Name, &p.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("point of interest %d in city %d: %w", poiID, cityID, types.ErrPointOfInterestNotFound)
		}
		return nil, fmt.Errorf("failed to query point of interest: %w", err)
	}
	return &p, nil
}

func (s *postgresSession) AddPointOfInterestForCity(ctx context.Context, cityID int, poi *types.PointOfInterest) (err error) {
	ctx, span := s.startSpan(ctx, "AddPointOfInterestForCity", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("city.id", cityID))
	defer func(start time.Time) { s.observe(ctx, span, "AddPointOfInterestForCity", start, err) }(time.Now())

	query, args, err := psql.Insert("points_of_interest").
		Columns("city_id", "name", "description").
		Values(cityID, poi.Name, poi.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int
	if err = s.tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return fmt.Errorf("failed to insert point of interest: %w", err)
	}
	poi.ID = id
	poi.CityID = cityID
	return nil
}

func (s *postgresSession) UpdatePointOfInterest(ctx context.Context, existing *types.PointOfInterest, name string, description *string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePointOfInterest", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("poi.id", existing.ID))
	defer func(start time.Time) { s.observe(ctx, span, "UpdatePointOfInterest", start, err) }(time.Now())

	query, args, err := psql.Update("points_of_interest").
		Set("name", name).
		Set("description", description).
		Where(sq.Eq{"id": existing.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := s.tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update point of interest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("point of interest %d: %w", existing.ID, types.ErrPointOfInterestNotFound)
	}

	existing.Name = name
	existing.Description = description
	return nil
}

func (s *postgresSession) DeletePointOfInterest(ctx context.Context, existing *types.PointOfInterest) (err error) {
	ctx, span := s.startSpan(ctx, "DeletePointOfInterest", "points_of_interest")
	defer span.End()
	span.SetAttributes(attribute.Int("poi.id", existing.ID))
	defer func(start time.Time) { s.observe(ctx, span, "DeletePointOfInterest", start, err) }(time.Now())

	query, args, err := psql.Delete("points_of_interest").
		Where(sq.Eq{"id": existing.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := s.tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete point of interest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("point of interest %d: %w", existing.ID, types.ErrPointOfInterestNotFound)
	}
	return nil
}

func (s *postgresSession) Save(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}
	s.committed = true
	return nil
}

func (s *postgresSession) Close(ctx context.Context) error {
	if s.committed {
		return nil
	}
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
