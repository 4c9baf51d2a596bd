// Package observability holds the service's Prometheus collectors.
package observability

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

type collectors struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	intents          *prometheus.CounterVec
	actions          *prometheus.CounterVec
	stops            *prometheus.CounterVec
	storeOps         *prometheus.CounterVec
	storeDuration    *prometheus.HistogramVec
	bridgePublish    *prometheus.CounterVec
	locationUpdates  *prometheus.CounterVec
	regionEvents     *prometheus.CounterVec
	trackedLocations prometheus.Gauge
	buildInfo        *prometheus.GaugeVec
}

var current atomic.Pointer[collectors]

func init() {
	current.Store(newCollectors())
}

func newCollectors() *collectors {
	return &collectors{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"method", "route", "status"},
		),
		intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "camera_intents_total",
				Help: "Camera intents applied, by change-detection outcome.",
			},
			[]string{"outcome"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "camera_actions_total",
				Help: "Native camera instructions emitted, by kind.",
			},
			[]string{"kind"},
		),
		stops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "camera_stops_compiled_total",
				Help: "Compiled camera stops, by native mode and target.",
			},
			[]string{"mode", "target"},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "session_store_op_total",
				Help: "Session store operations by op and result.",
			},
			[]string{"op", "result"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "session_store_op_duration_seconds",
				Help:    "Session store operation latency.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
			[]string{"op"},
		),
		bridgePublish: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_publish_total",
				Help: "Commands handed to the native bridge, by driver and result.",
			},
			[]string{"driver", "result"},
		),
		locationUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "location_updates_total",
				Help: "Device location updates by result.",
			},
			[]string{"result"},
		),
		regionEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "region_events_total",
				Help: "Region change events emitted, by type.",
			},
			[]string{"type"},
		),
		trackedLocations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "location_tracked_devices",
				Help: "Devices with a last-known location.",
			},
		),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "camera_build_info",
				Help: "Build information for the binary.",
			},
			[]string{"version"},
		),
	}
}

// Init swaps in a fresh collector set and registers it on reg. With
// enabled=false the collectors still count but are not exported.
func Init(reg prometheus.Registerer, enabled bool) {
	c := newCollectors()
	if enabled && reg != nil {
		reg.MustRegister(
			c.httpRequests, c.httpDuration,
			c.intents, c.actions, c.stops,
			c.storeOps, c.storeDuration,
			c.bridgePublish,
			c.locationUpdates, c.trackedLocations,
			c.regionEvents,
			c.buildInfo,
		)
	}
	current.Store(c)
}

func get() *collectors { return current.Load() }

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	c := get()
	st := strconv.Itoa(status)
	c.httpRequests.WithLabelValues(method, route, st).Inc()
	c.httpDuration.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func IncIntent(changed bool) {
	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	get().intents.WithLabelValues(outcome).Inc()
}

func IncAction(kind string) {
	get().actions.WithLabelValues(kind).Inc()
}

func IncStop(mode, target string) {
	get().stops.WithLabelValues(mode, target).Inc()
}

func ObserveStoreOp(op string, err error, durationSeconds float64) {
	c := get()
	c.storeOps.WithLabelValues(op, result(err)).Inc()
	c.storeDuration.WithLabelValues(op).Observe(durationSeconds)
}

func IncBridgePublish(driver string, err error) {
	get().bridgePublish.WithLabelValues(driver, result(err)).Inc()
}

func IncLocationUpdate(res string) {
	get().locationUpdates.WithLabelValues(res).Inc()
}

func SetTrackedLocations(n int) {
	get().trackedLocations.Set(float64(n))
}

func IncRegionEvent(typ string) {
	get().regionEvents.WithLabelValues(typ).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	get().buildInfo.WithLabelValues(version).Set(1)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
