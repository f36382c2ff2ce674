package poi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appLogger "github.com/FACorreiaa/go-city-info-api/app/logger"
	"github.com/FACorreiaa/go-city-info-api/internal/api"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// RouteGetPointOfInterest is the route a created point of interest is reachable at.
const RouteGetPointOfInterest = "/api/cities/{cityId}/pointsofinterest/{id}"

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

func (h *HandlerImpl) startSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("PointOfInterestHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// pathIDs parses cityId and, when withPOI is set, id. Non-integer ids are
// treated as unknown resources.
func pathIDs(r *http.Request, withPOI bool) (cityID, poiID int, ok bool) {
	cityID, ok = api.IntURLParam(r, "cityId")
	if !ok || !withPOI {
		return cityID, 0, ok
	}
	poiID, ok = api.IntURLParam(r, "id")
	return cityID, poiID, ok
}

// GetPointsOfInterest godoc
// @Summary      List points of interest
// @Description  Returns every point of interest of a city, ordered by id.
// @Tags         PointsOfInterest
// @Produce      json,xml
// @Param        cityId path int true "City ID"
// @Success      200 {array}  types.PointOfInterest
// @Failure      404 {object} api.ErrorBody "City Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Router       /api/cities/{cityId}/pointsofinterest [get]
func (h *HandlerImpl) GetPointsOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "GetPointsOfInterest", "/api/cities/{cityId}/pointsofinterest")
	defer span.End()
	ctx := r.Context()

	cityID, _, ok := pathIDs(r, false)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrCityNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "GetPointsOfInterest"), slog.Int("cityId", cityID))

	pois, err := h.service.GetPointsOfInterest(ctx, cityID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(ctx, "City wasn't found when accessing points of interest")
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		appLogger.Critical(ctx, l, "Exception while getting points of interest", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.GenericErrorMessage)
		return
	}

	span.SetAttributes(attribute.Int("pois.count", len(pois)))
	api.WriteResponse(w, r, http.StatusOK, types.PointOfInterestList(pois))
}

// GetPointOfInterest godoc
// @Summary      Get a point of interest
// @Tags         PointsOfInterest
// @Produce      json,xml
// @Param        cityId path int true "City ID"
// @Param        id     path int true "Point of interest ID"
// @Success      200 {object} types.PointOfInterest
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Router       /api/cities/{cityId}/pointsofinterest/{id} [get]
func (h *HandlerImpl) GetPointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "GetPointOfInterest", RouteGetPointOfInterest)
	defer span.End()
	ctx := r.Context()

	cityID, poiID, ok := pathIDs(r, true)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "GetPointOfInterest"), slog.Int("cityId", cityID), slog.Int("id", poiID))

	poi, err := h.service.GetPointOfInterest(ctx, cityID, poiID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		appLogger.Critical(ctx, l, "Exception while getting point of interest", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.GenericErrorMessage)
		return
	}

	api.WriteResponse(w, r, http.StatusOK, poi)
}

// CreatePointOfInterest godoc
// @Summary      Create a point of interest
// @Tags         PointsOfInterest
// @Accept       json
// @Produce      json,xml
// @Param        cityId path int true "City ID"
// @Param        poi    body types.PointOfInterestForCreation true "New point of interest"
// @Success      201 {object} types.PointOfInterest
// @Header       201 {string} Location "URL of the created point of interest"
// @Failure      400 {object} api.ErrorBody "Validation Failed"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      404 {object} api.ErrorBody "City Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /api/cities/{cityId}/pointsofinterest [post]
func (h *HandlerImpl) CreatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "CreatePointOfInterest", "/api/cities/{cityId}/pointsofinterest")
	defer span.End()
	ctx := r.Context()

	cityID, _, ok := pathIDs(r, false)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrCityNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "CreatePointOfInterest"), slog.Int("cityId", cityID))

	var payload types.PointOfInterestForCreation
	if err := api.DecodeJSONBody(w, r, &payload); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	poi, err := h.service.CreatePointOfInterest(ctx, cityID, payload)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	w.Header().Set("Location", pointOfInterestURL(r, cityID, poi.ID))
	api.WriteResponse(w, r, http.StatusCreated, poi)
}

// UpdatePointOfInterest godoc
// @Summary      Replace a point of interest
// @Tags         PointsOfInterest
// @Accept       json
// @Param        cityId path int true "City ID"
// @Param        id     path int true "Point of interest ID"
// @Param        poi    body types.PointOfInterestForUpdate true "Replacement values"
// @Success      204
// @Failure      400 {object} api.ErrorBody "Validation Failed"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /api/cities/{cityId}/pointsofinterest/{id} [put]
func (h *HandlerImpl) UpdatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "UpdatePointOfInterest", RouteGetPointOfInterest)
	defer span.End()
	ctx := r.Context()

	cityID, poiID, ok := pathIDs(r, true)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "UpdatePointOfInterest"), slog.Int("cityId", cityID), slog.Int("id", poiID))

	var payload types.PointOfInterestForUpdate
	if err := api.DecodeJSONBody(w, r, &payload); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdatePointOfInterest(ctx, cityID, poiID, payload); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PatchPointOfInterest godoc
// @Summary      Partially update a point of interest
// @Description  Applies a JSON Patch document (add, remove, replace, move, copy, test) to /name and /description.
// @Tags         PointsOfInterest
// @Accept       json
// @Param        cityId path int true "City ID"
// @Param        id     path int true "Point of interest ID"
// @Param        patch  body types.PatchDocument true "JSON Patch document"
// @Success      204
// @Failure      400 {object} api.ErrorBody "Invalid Patch"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /api/cities/{cityId}/pointsofinterest/{id} [patch]
func (h *HandlerImpl) PatchPointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "PatchPointOfInterest", RouteGetPointOfInterest)
	defer span.End()
	ctx := r.Context()

	cityID, poiID, ok := pathIDs(r, true)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "PatchPointOfInterest"), slog.Int("cityId", cityID), slog.Int("id", poiID))

	var doc types.PatchDocument
	if err := api.DecodeJSONBody(w, r, &doc); err != nil {
		l.WarnContext(ctx, "Failed to decode patch document", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.PatchPointOfInterest(ctx, cityID, poiID, doc); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePointOfInterest godoc
// @Summary      Delete a point of interest
// @Description  Deletes the point of interest and notifies the configured mailbox in the background.
// @Tags         PointsOfInterest
// @Param        cityId path int true "City ID"
// @Param        id     path int true "Point of interest ID"
// @Success      204
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /api/cities/{cityId}/pointsofinterest/{id} [delete]
func (h *HandlerImpl) DeletePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "DeletePointOfInterest", RouteGetPointOfInterest)
	defer span.End()
	ctx := r.Context()

	cityID, poiID, ok := pathIDs(r, true)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNotFound.Error())
		return
	}
	l := h.logger.With(slog.String("handler", "DeletePointOfInterest"), slog.Int("cityId", cityID), slog.Int("id", poiID))

	if err := h.service.DeletePointOfInterest(ctx, cityID, poiID); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pointOfInterestURL(r *http.Request, cityID, poiID int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/api/cities/%d/pointsofinterest/%d", scheme, r.Host, cityID, poiID)
}
