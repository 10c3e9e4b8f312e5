// Package metrics counts what the engine does and writes per-move records of
// played games.
package metrics

import (
	"time"

	"cattletrail/errs"
	"cattletrail/obligation"
	"cattletrail/player"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MoveMetric describes one engine call.
type MoveMetric struct {
	Step     int
	Player   player.ID
	Kind     obligation.Kind // Empty for skips and turn ends
	Duration time.Duration
	Code     errs.Code // Empty when the call succeeded
	Hash     uint64    // State hash after the call
}

// GameMetric summarises a played game.
type GameMetric struct {
	Players    int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Rejections int
}

type Collector interface {
	Performed(kind obligation.Kind, duration time.Duration)
	Rejected(kind obligation.Kind, code errs.Code)
	RoutesEnumerated(n int)
	TurnEnded()
}

type collector struct {
	performed *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	routes    prometheus.Counter
	turns     prometheus.Counter
	durations *prometheus.HistogramVec
}

// NewCollector registers the engine metrics with registerer. Pass a fresh
// prometheus.NewRegistry() to keep games apart.
func NewCollector(registerer prometheus.Registerer) Collector {
	factory := promauto.With(registerer)
	return &collector{
		performed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cattletrail_actions_performed_total",
				Help: "Total number of actions performed, partitioned by kind.",
			},
			[]string{"kind"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cattletrail_actions_rejected_total",
				Help: "Total number of rejected engine calls, partitioned by kind and error code.",
			},
			[]string{"kind", "code"},
		),
		routes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cattletrail_routes_enumerated_total",
				Help: "Total number of trail routes enumerated by queries.",
			},
		),
		turns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cattletrail_turns_total",
				Help: "Total number of turns ended.",
			},
		),
		durations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cattletrail_action_duration_seconds",
				Help:    "Time spent applying an action, partitioned by kind.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"kind"},
		),
	}
}

func (c *collector) Performed(kind obligation.Kind, duration time.Duration) {
	c.performed.WithLabelValues(string(kind)).Inc()
	c.durations.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

func (c *collector) Rejected(kind obligation.Kind, code errs.Code) {
	c.rejected.WithLabelValues(string(kind), string(code)).Inc()
}

func (c *collector) RoutesEnumerated(n int) {
	c.routes.Add(float64(n))
}

func (c *collector) TurnEnded() {
	c.turns.Inc()
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Performed(kind obligation.Kind, duration time.Duration) {}
func (m *dummyCollector) Rejected(kind obligation.Kind, code errs.Code)          {}
func (m *dummyCollector) RoutesEnumerated(n int)                                 {}
func (m *dummyCollector) TurnEnded()                                             {}
