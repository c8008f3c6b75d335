package people

import "github.com/prometheus/client_golang/prometheus"

// Lookup results recorded in hermes_people_lookups_total.
const (
	resultHit         = "hit"
	resultShared      = "shared"
	resultFetched     = "fetched"
	resultPlaceholder = "placeholder"
)

// Metrics counts cache behaviour. A nil *Metrics records nothing.
type Metrics struct {
	lookups *prometheus.CounterVec
	cached  prometheus.Gauge
}

// NewMetrics registers the people metrics on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_people_lookups_total",
				Help: "Person and group lookups by outcome.",
			},
			[]string{"kind", "result"},
		),
		cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hermes_people_cached_records",
			Help: "Person and group records held across live sessions.",
		}),
	}
	for _, c := range []prometheus.Collector{m.lookups, m.cached} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind Kind, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(string(kind), result).Inc()
}

func (m *Metrics) addCached(n int) {
	if m == nil || n == 0 {
		return
	}
	m.cached.Add(float64(n))
}
