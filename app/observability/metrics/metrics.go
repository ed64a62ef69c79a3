package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SignupRequestsTotal    metric.Int64Counter
	SigninAttemptsTotal    metric.Int64Counter
	GuardChecksTotal       metric.Int64Counter
	GuardRejectionsTotal   metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-quora-api")
		var err error
		m := &AppMetrics{}

		m.SignupRequestsTotal, err = meter.Int64Counter(
			"signup_requests_total",
			metric.WithDescription("Total number of signup requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create signup_requests_total: %v", err)
		}

		m.SigninAttemptsTotal, err = meter.Int64Counter(
			"signin_attempts_total",
			metric.WithDescription("Total number of signin attempts"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create signin_attempts_total: %v", err)
		}

		m.GuardChecksTotal, err = meter.Int64Counter(
			"guard_checks_total",
			metric.WithDescription("Total number of bearer-token authorization checks"),
			metric.WithUnit("{check}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create guard_checks_total: %v", err)
		}

		m.GuardRejectionsTotal, err = meter.Int64Counter(
			"guard_rejections_total",
			metric.WithDescription("Authorization checks rejected as not-signed-in or signed-out"),
			metric.WithUnit("{check}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create guard_rejections_total: %v", err)
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

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
