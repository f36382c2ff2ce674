package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

func TestNegotiateContentType(t *testing.T) {
	tests := []struct {
		accept string
		want   string
	}{
		{accept: "", want: ContentTypeJSON},
		{accept: "*/*", want: ContentTypeJSON},
		{accept: "application/json", want: ContentTypeJSON},
		{accept: "application/xml", want: ContentTypeXML},
		{accept: "text/xml", want: ContentTypeXML},
		{accept: "application/xml;q=0.9, application/json;q=0.5", want: ContentTypeXML},
		{accept: "text/html", want: ContentTypeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, NegotiateContentType(r))
		})
	}
}

func TestHandleError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verr := types.NewValidationError()
	verr.Add("name", "You should provide a name value.")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "not found", err: fmt.Errorf("lookup: %w", types.ErrCityNotFound), wantStatus: http.StatusNotFound},
		{name: "validation", err: verr, wantStatus: http.StatusBadRequest},
		{name: "persistence", err: fmt.Errorf("%w: deadlock", types.ErrPersistence), wantStatus: http.StatusInternalServerError, wantError: types.GenericErrorMessage},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantError: types.GenericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), logger, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
				assert.NotContains(t, rec.Body.String(), "deadlock")
			}
		})
	}
}

func TestValidationErrorResponse_XML(t *testing.T) {
	verr := types.NewValidationError()
	verr.Add("description", "The provided description should be different from the name.")

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Accept", "application/xml")
	rec := httptest.NewRecorder()
	ValidationErrorResponse(rec, r, verr)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), ContentTypeXML)
	assert.Contains(t, rec.Body.String(), `<Error field="description">The provided description should be different from the name.</Error>`)
}

func TestWriteResponse_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponse(rec, httptest.NewRequest(http.MethodPut, "/", nil), http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestIntURLParam(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/cities/{cityId}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := IntURLParam(r, "cityId")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, id)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cities/42", nil))
	assert.Equal(t, "42", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cities/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
		missing bool
	}{
		{name: "valid", body: `{"name":"Central Park"}`},
		{name: "empty", body: "", missing: true},
		{name: "null", body: " null ", missing: true},
		{name: "malformed", body: `{"name":`, wantErr: "badly-formed"},
		{name: "wrong type", body: `{"name":1}`, wantErr: "incorrect JSON type"},
		{name: "unknown key", body: `{"nom":"x"}`, wantErr: `unknown key "nom"`},
		{name: "echoed id", body: `{"name":"Central Park","id":1}`, wantErr: `unknown key "id"`},
		{name: "two values", body: `{"name":"a"}{"name":"b"}`, wantErr: "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			switch {
			case tt.missing:
				assert.ErrorIs(t, err, ErrBodyMissing)
			case tt.wantErr != "":
				assert.ErrorContains(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Central Park", dst.Name)
			}
		})
	}
}
