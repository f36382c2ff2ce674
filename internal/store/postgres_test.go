package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

func setupPostgresRepositoryTest(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresRepository(mock, logger), mock
}

func beginSession(t *testing.T, repo *PostgresRepository, mock pgxmock.PgxPoolIface) Session {
	t.Helper()
	mock.ExpectBegin()
	session, err := repo.Begin(context.Background())
	require.NoError(t, err)
	return session
}

func TestPostgresRepository_Begin(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
	_, err := repo.Begin(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CityExists(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM cities WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM cities WHERE id = $1")).
		WithArgs(42).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	exists, err := session.CityExists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = session.CityExists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, session.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetPointsOfInterestForCity(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, city_id, name, description FROM points_of_interest WHERE city_id = $1 ORDER BY id")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "city_id", "name", "description"}).
			AddRow(1, 1, "Central Park", types.StringPtr("The most visited park")).
			AddRow(2, 1, "Empire State Building", types.StringPtr("A 102-story skyscraper")))
	mock.ExpectRollback()

	pois, err := session.GetPointsOfInterestForCity(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pois, 2)
	assert.Equal(t, "Central Park", pois[0].Name)
	assert.Equal(t, "The most visited park", *pois[0].Description)
	assert.Equal(t, 2, pois[1].ID)

	require.NoError(t, session.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetPointOfInterestForCity(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM points_of_interest WHERE city_id = $1 AND id = $2")).
			WithArgs(1, 1).
			WillReturnRows(pgxmock.NewRows([]string{"id", "city_id", "name", "description"}).
				AddRow(1, 1, "Central Park", types.StringPtr("The most visited park")))

		poi, err := session.GetPointOfInterestForCity(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, poi.ID)
		assert.Equal(t, 1, poi.CityID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM points_of_interest WHERE city_id = $1 AND id = $2")).
			WithArgs(1, 99).
			WillReturnRows(pgxmock.NewRows([]string{"id", "city_id", "name", "description"}))

		_, err := session.GetPointOfInterestForCity(ctx, 1, 99)
		assert.ErrorIs(t, err, types.ErrPointOfInterestNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM points_of_interest WHERE city_id = $1 AND id = $2")).
			WithArgs(1, 2).
			WillReturnError(errors.New("connection reset"))

		_, err := session.GetPointOfInterestForCity(ctx, 1, 2)
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})

	mock.ExpectRollback()
	require.NoError(t, session.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetCity(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM cities WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).
			AddRow(3, "Paris", types.StringPtr("The one with that big tower.")))
	mock.ExpectQuery(regexp.QuoteMeta("FROM points_of_interest WHERE city_id = $1 ORDER BY id")).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "city_id", "name", "description"}).
			AddRow(5, 3, "Eiffel Tower", types.StringPtr("A wrought iron lattice tower")))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM cities WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}))
	mock.ExpectRollback()

	city, err := session.GetCity(ctx, 3, true)
	require.NoError(t, err)
	assert.Equal(t, "Paris", city.Name)
	require.Len(t, city.PointsOfInterest, 1)
	assert.Equal(t, "Eiffel Tower", city.PointsOfInterest[0].Name)

	_, err = session.GetCity(ctx, 99, false)
	assert.ErrorIs(t, err, types.ErrCityNotFound)

	require.NoError(t, session.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_AddAndSave(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO points_of_interest")).
		WithArgs(1, "Grand Central Terminal", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	poi := &types.PointOfInterest{Name: "Grand Central Terminal"}
	require.NoError(t, session.AddPointOfInterestForCity(ctx, 1, poi))
	assert.Equal(t, 7, poi.ID)
	assert.Equal(t, 1, poi.CityID)

	require.NoError(t, session.Save(ctx))
	require.NoError(t, session.Close(ctx), "close after save must not roll back")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdatePointOfInterest(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	existing := &types.PointOfInterest{ID: 1, CityID: 1, Name: "Central Park"}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE points_of_interest SET name = $1, description = $2 WHERE id = $3")).
		WithArgs("Central Park NYC", pgxmock.AnyArg(), 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE points_of_interest")).
		WithArgs("Gone", pgxmock.AnyArg(), 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	require.NoError(t, session.UpdatePointOfInterest(ctx, existing, "Central Park NYC", types.StringPtr("Big park")))
	assert.Equal(t, "Central Park NYC", existing.Name)
	assert.Equal(t, "Big park", *existing.Description)

	err := session.UpdatePointOfInterest(ctx, existing, "Gone", nil)
	assert.ErrorIs(t, err, types.ErrPointOfInterestNotFound)

	require.NoError(t, session.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteAndFailedSave(t *testing.T) {
	repo, mock := setupPostgresRepositoryTest(t)
	ctx := context.Background()
	session := beginSession(t, repo, mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM points_of_interest WHERE id = $1")).
		WithArgs(6).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
	mock.ExpectRollback()

	require.NoError(t, session.DeletePointOfInterest(ctx, &types.PointOfInterest{ID: 6, CityID: 3}))

	err := session.Save(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersistence)

	require.NoError(t, session.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
