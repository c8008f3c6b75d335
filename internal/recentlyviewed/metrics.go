package recentlyviewed

import "github.com/prometheus/client_golang/prometheus"

const (
	resultPopulated  = "populated"
	resultErrored    = "errored"
	resultSuperseded = "superseded"
)

// Metrics counts aggregator runs. A nil *Metrics records nothing.
type Metrics struct {
	runs *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hermes_recently_viewed_runs_total",
				Help: "Recently viewed aggregation runs by outcome.",
			},
			[]string{"result"},
		),
	}
	if err := reg.Register(m.runs); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
}
