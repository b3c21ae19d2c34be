package observability

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records cache, invalidation, report and HTTP measurements.
type Metrics interface {
	RecordCacheLookup(family string, hit bool)
	RecordCacheError(op string)
	RecordInvalidation(keys int, err error)
	RecordReport(report string, duration time.Duration, err error)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordCacheLookup(string, bool)                       {}
func (NoopMetrics) RecordCacheError(string)                              {}
func (NoopMetrics) RecordInvalidation(int, error)                        {}
func (NoopMetrics) RecordReport(string, time.Duration, error)            {}
func (NoopMetrics) RecordHTTPRequest(string, string, int, time.Duration) {}

// PrometheusMetrics holds the collectors on a private registry so several
// instances can coexist in tests.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	cacheErrors   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	keysEvicted   prometheus.Counter
	reportBuilds  *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors under namespace.
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Read-through lookups by key family and result",
		}, []string{"family", "result"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_errors_total",
			Help:      "Cache backend failures by operation",
		}, []string{"op"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Invalidation runs by outcome",
		}, []string{"outcome"}),
		keysEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_keys_evicted_total",
			Help:      "Keys passed to the store for eviction",
		}),
		reportBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_builds_total",
			Help:      "Analytics report computations by report and outcome",
		}, []string{"report", "outcome"}),
		reportLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_seconds",
			Help:      "Analytics report computation time",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.cacheLookups,
		m.cacheErrors,
		m.invalidations,
		m.keysEvicted,
		m.reportBuilds,
		m.reportLatency,
	)
	return m
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PrometheusMetrics) RecordCacheLookup(family string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(family, result).Inc()
}

func (m *PrometheusMetrics) RecordCacheError(op string) {
	m.cacheErrors.WithLabelValues(op).Inc()
}

func (m *PrometheusMetrics) RecordInvalidation(keys int, err error) {
	m.invalidations.WithLabelValues(outcome(err)).Inc()
	m.keysEvicted.Add(float64(keys))
}

func (m *PrometheusMetrics) RecordReport(report string, duration time.Duration, err error) {
	m.reportBuilds.WithLabelValues(report, outcome(err)).Inc()
	m.reportLatency.WithLabelValues(report).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// CloudWatchAPI is the subset of the CloudWatch client used for publishing.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// maxDatumsPerCall is the PutMetricData request limit.
const maxDatumsPerCall = 1000

// CloudWatchMetrics buffers datums in memory; Flush publishes them. Lambda
// entry points flush at the end of every invocation.
type CloudWatchMetrics struct {
	client    CloudWatchAPI
	namespace string

	mu     sync.Mutex
	buffer []cwtypes.MetricDatum
}

// NewCloudWatchMetrics creates a buffering CloudWatch publisher.
func NewCloudWatchMetrics(client CloudWatchAPI, namespace string) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, namespace: namespace}
}

func (m *CloudWatchMetrics) add(name string, value float64, unit cwtypes.StandardUnit, dims ...string) {
	datum := cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
	}
	for i := 0; i+1 < len(dims); i += 2 {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  aws.String(dims[i]),
			Value: aws.String(dims[i+1]),
		})
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	m.mu.Unlock()
}

func (m *CloudWatchMetrics) RecordCacheLookup(family string, hit bool) {
	name := "CacheMiss"
	if hit {
		name = "CacheHit"
	}
	m.add(name, 1, cwtypes.StandardUnitCount, "KeyFamily", family)
}

func (m *CloudWatchMetrics) RecordCacheError(op string) {
	m.add("CacheError", 1, cwtypes.StandardUnitCount, "Operation", op)
}

func (m *CloudWatchMetrics) RecordInvalidation(keys int, err error) {
	m.add("Invalidation", 1, cwtypes.StandardUnitCount, "Outcome", outcome(err))
	m.add("KeysEvicted", float64(keys), cwtypes.StandardUnitCount)
}

func (m *CloudWatchMetrics) RecordReport(report string, duration time.Duration, err error) {
	m.add("ReportBuild", 1, cwtypes.StandardUnitCount, "Report", report, "Outcome", outcome(err))
	m.add("ReportLatency", float64(duration.Milliseconds()), cwtypes.StandardUnitMilliseconds, "Report", report)
}

func (m *CloudWatchMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.add("Request", 1, cwtypes.StandardUnitCount, "Route", method+" "+route, "Status", strconv.Itoa(status))
	m.add("Latency", float64(duration.Milliseconds()), cwtypes.StandardUnitMilliseconds, "Route", method+" "+route)
}

// Pending reports how many datums are waiting for Flush.
func (m *CloudWatchMetrics) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffer)
}

// Flush publishes buffered datums in request-sized batches. Datums from a
// failed batch are dropped.
func (m *CloudWatchMetrics) Flush(ctx context.Context) error {
	m.mu.Lock()
	pending := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	for start := 0; start < len(pending); start += maxDatumsPerCall {
		end := start + maxDatumsPerCall
		if end > len(pending) {
			end = len(pending)
		}
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			return err
		}
	}
	return nil
}
