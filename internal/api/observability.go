package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carry no per-player or per-room labels, keeping cardinality
// bounded regardless of how many rooms or players churn through.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "room_tick_duration_seconds",
		Help:    "Time spent processing one room tick",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016},
	})

	roomCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_room_count",
		Help: "Current number of active rooms",
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_player_count",
		Help: "Current number of connected players across all rooms",
	})

	shotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shots_fired_total",
		Help: "Total shoot inputs processed",
	})

	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hits_landed_total",
		Help: "Total validated hits across all rooms",
	})

	killsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kills_total",
		Help: "Total validated kills across all rooms",
	})

	// connectionRejected uses only bounded label values: "rate_limit",
	// "origin", "room_full", "malformed", "ws_limit".
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections, HTTP requests or frames rejected",
	}, []string{"reason"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})
)

// RecordTick records one room tick's wall-clock duration.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// UpdateRoomCount sets the room gauge.
func UpdateRoomCount(n int) { roomCount.Set(float64(n)) }

// UpdatePlayerCount sets the player gauge.
func UpdatePlayerCount(n int) { playerCount.Set(float64(n)) }

// RecordShot increments the shots-fired counter.
func RecordShot() { shotsTotal.Inc() }

// RecordHits increments the hits counter by n.
func RecordHits(n int) { hitsTotal.Add(float64(n)) }

// RecordKills increments the kills counter by n.
func RecordKills(n int) { killsTotal.Add(float64(n)) }

// RecordConnectionRejected increments the rejection counter. reason must
// be one of the bounded values documented on connectionRejected.
func RecordConnectionRejected(reason string) { connectionRejected.WithLabelValues(reason).Inc() }

// UpdateWSConnections sets the active WebSocket connection gauge.
func UpdateWSConnections(n int) { wsConnectionsActive.Set(float64(n)) }

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler { return promhttp.Handler() }
