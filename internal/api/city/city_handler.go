package city

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	appLogger "github.com/FACorreiaa/go-city-info-api/app/logger"
	"github.com/FACorreiaa/go-city-info-api/internal/api"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// GetCities godoc
// @Summary      List cities
// @Description  Returns every city without its points of interest, ordered by name.
// @Tags         Cities
// @Produce      json,xml
// @Success      200 {array}  types.CityWithoutPointsOfInterest
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Router       /api/cities [get]
func (h *HandlerImpl) GetCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCities")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCities"))

	cities, err := h.service.GetCities(ctx)
	if err != nil {
		appLogger.Critical(ctx, l, "Failed to retrieve cities", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.GenericErrorMessage)
		return
	}

	l.DebugContext(ctx, "Returning cities", slog.Int("count", len(cities)))
	api.WriteResponse(w, r, http.StatusOK, types.CityList(cities))
}

// GetCity godoc
// @Summary      Get a city
// @Tags         Cities
// @Produce      json,xml
// @Param        cityId                  path  int  true  "City ID"
// @Param        includePointsOfInterest query bool false "Embed the points of interest"
// @Success      200 {object} types.City
// @Failure      404 {object} api.ErrorBody "City Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Router       /api/cities/{cityId} [get]
func (h *HandlerImpl) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCity")
	defer span.End()

	cityID, ok := api.IntURLParam(r, "cityId")
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrCityNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "GetCity"), slog.Int("cityId", cityID))

	include := false
	if v := r.URL.Query().Get("includePointsOfInterest"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "includePointsOfInterest must be true or false")
			return
		}
		include = parsed
	}

	city, err := h.service.GetCity(ctx, cityID, include)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		appLogger.Critical(ctx, l, "Failed to retrieve city", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.GenericErrorMessage)
		return
	}

	if include {
		api.WriteResponse(w, r, http.StatusOK, city)
		return
	}
	api.WriteResponse(w, r, http.StatusOK, city.ToSummary())
}
