package internal

import "github.com/prometheus/client_golang/prometheus"

var (
	JoinsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hackhub_event_joins_total", Help: "Total accepted event joins"},
	)
	SubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hackhub_submissions_total", Help: "Total accepted project submissions"},
	)
	RatingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hackhub_ratings_total", Help: "Total accepted ratings"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(JoinsTotal, SubmissionsTotal, RatingsTotal)
}
