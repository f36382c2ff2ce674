package api

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/munnerz/goautoneg"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

var offers = []string{ContentTypeJSON, ContentTypeXML, "text/xml"}

// ErrBodyMissing is returned by DecodeJSONBody for an empty body or a literal null.
var ErrBodyMissing = errors.New("body must not be empty")

// ErrorResponse writes a standard error response including the request ID.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteResponse(w, r, status, ErrorBody{
		Success:   false,
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// ValidationErrorResponse writes a 400 listing every field error.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, verr *types.ValidationError) {
	WriteResponse(w, r, http.StatusBadRequest, ErrorBody{
		Success:   false,
		Error:     "One or more validation errors occurred.",
		Errors:    FieldErrors(verr.Errors),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// HandleError maps service errors to a status code. Anything that is not a
// not-found or validation error is reported with the generic message only.
func HandleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationErrorResponse(w, r, verr)
	case errors.Is(err, types.ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrBadRequest):
		ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", slog.Any("error", err))
		ErrorResponse(w, r, http.StatusInternalServerError, types.GenericErrorMessage)
	}
}

// NegotiateContentType picks XML when the Accept header prefers it and JSON otherwise.
func NegotiateContentType(r *http.Request) string {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return ContentTypeJSON
	}
	switch goautoneg.Negotiate(accept, offers) {
	case ContentTypeXML, "text/xml":
		return ContentTypeXML
	default:
		return ContentTypeJSON
	}
}

// WriteResponse encodes data in the negotiated format.
func WriteResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if NegotiateContentType(r) == ContentTypeXML {
		WriteXMLResponse(w, r, status, data)
		return
	}
	WriteJSONResponse(w, r, status, data)
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeBody(w, r, status, ContentTypeJSON+"; charset=utf-8", js)
}

func WriteXMLResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	body, err := xml.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal XML response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeBody(w, r, status, ContentTypeXML+"; charset=utf-8", append([]byte(xml.Header), body...))
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// Status already sent.
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// IntURLParam parses a route parameter as an int. ok is false when it is not one.
func IntURLParam(r *http.Request, key string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, false
	}
	return v, true
}

// DecodeJSONBody reads and decodes a JSON request body safely. A missing body
// or a literal null yields ErrBodyMissing.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		}
		return fmt.Errorf("error reading body: %w", err)
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ErrBodyMissing
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.DisallowUnknownFields()

	err = dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", unmarshalTypeError.Field, unmarshalTypeError.Type)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return fmt.Errorf("body contains unknown key %q", fieldName)

		case errors.As(err, &invalidUnmarshalError):
			panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))

		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}
