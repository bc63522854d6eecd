package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// activeUsers counts distinct user ids seen since the last reset.
type activeUsers struct {
	gauge prometheus.Gauge
	seen  map[string]struct{}
	mu    sync.Mutex
}

const activeUsersPerWeek = "active_users_per_week"

var activeUsersPerWeekMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: jobTracker,
		Name:      activeUsersPerWeek,
		Help:      "number of distinct users that called the jobs api this week",
	},
)

var ActiveUsersPerWeek = &activeUsers{
	gauge: activeUsersPerWeekMetric,
	seen:  make(map[string]struct{}),
}

func (a *activeUsers) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.seen = make(map[string]struct{})
	a.gauge.Set(0)
}

func (a *activeUsers) Observe(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[userID]; ok {
		return
	}
	a.seen[userID] = struct{}{}
	a.gauge.Inc()
}

func (a *activeUsers) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}
