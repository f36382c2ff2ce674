package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FACorreiaa/go-city-info-api/internal/container"
)

// BenchmarkSuite holds the assembled handler for the benchmarks.
type BenchmarkSuite struct {
	handler   http.Handler
	container *container.Container
}

func setupBenchmarkSuite(b *testing.B) *BenchmarkSuite {
	b.Helper()
	cfg := newE2EConfig()
	cfg.Auth.Enabled = false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := container.NewContainer(context.Background(), cfg, logger)
	if err != nil {
		b.Fatalf("container: %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Shutdown(ctx)
	})

	return &BenchmarkSuite{handler: newHTTPHandler(cfg, c, logger), container: c}
}

func (suite *BenchmarkSuite) makeRequest(method, path string, body []byte, accept string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	suite.handler.ServeHTTP(w, req)
	return w
}

func BenchmarkListPointsOfInterest(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.makeRequest(http.MethodGet, "/api/cities/1/pointsofinterest", nil, "")
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkListPointsOfInterestXML(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.makeRequest(http.MethodGet, "/api/cities/1/pointsofinterest", nil, "application/xml")
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkCreatePointOfInterest(b *testing.B) {
	suite := setupBenchmarkSuite(b)
	payload, _ := json.Marshal(map[string]string{"name": "Grand Central Terminal", "description": "A commuter rail terminal."})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := suite.makeRequest(http.MethodPost, "/api/cities/1/pointsofinterest", payload, "")
		if w.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkPatchPointOfInterest(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := []byte(fmt.Sprintf(`[{"op":"replace","path":"/description","value":"Visit %d"}]`, i))
		w := suite.makeRequest(http.MethodPatch, "/api/cities/2/pointsofinterest/3", doc, "")
		if w.Code != http.StatusNoContent {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkConcurrentRequests(b *testing.B) {
	suite := setupBenchmarkSuite(b)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			w := suite.makeRequest(http.MethodGet, "/api/cities/3?includePointsOfInterest=true", nil, "")
			if w.Code != http.StatusOK {
				b.Errorf("unexpected status %d", w.Code)
			}
		}
	})
}
