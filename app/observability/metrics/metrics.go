package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal        metric.Int64Counter
	PointOfInterestChanges   metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
	NotificationsSentTotal   metric.Int64Counter
	NotificationsFailedTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the globally configured MeterProvider.
// Without a configured provider the instruments are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CityInfoAPI")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of handled API requests by operation and status"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.PointOfInterestChanges, err = meter.Int64Counter(
			"points_of_interest_changes_total",
			metric.WithDescription("Committed point of interest creations, updates and deletions"),
			metric.WithUnit("{change}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create points_of_interest_changes_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		m.NotificationsSentTotal, err = meter.Int64Counter(
			"notifications_sent_total",
			metric.WithDescription("Mail notifications delivered"),
			metric.WithUnit("{mail}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create notifications_sent_total: %v", err)
		}

		m.NotificationsFailedTotal, err = meter.Int64Counter(
			"notifications_failed_total",
			metric.WithDescription("Mail notifications that could not be delivered"),
			metric.WithUnit("{mail}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create notifications_failed_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global instruments, initialising them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
