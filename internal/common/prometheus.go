package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	CardsMintedTotal           = "scratch_cards_minted_total"
	CardRevealTotal            = "scratch_card_reveal_total"
	IssuanceFailureTotal       = "scratch_card_issuance_failure_total"
	NotificationTotal          = "notification_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "path", "status_code"}),
		CardsMintedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CardsMintedTotal,
			Help: "Count of minted scratch cards",
		}, []string{"prize_kind"}),
		CardRevealTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CardRevealTotal,
			Help: "Count of scratch card reveal attempts",
		}, []string{"result"}),
		IssuanceFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: IssuanceFailureTotal,
			Help: "Count of issuance runs which stopped with an error",
		}, []string{"partial"}),
		NotificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: NotificationTotal,
			Help: "Count of cards minted notifications",
		}, []string{"status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    HTTPRequestDurationSeconds,
			Help:    "Duration of all HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
	}
)

// PromCollectors returns every metric of the service, it's used to build the
// metrics handler.
func PromCollectors() []prometheus.Collector {
	cs := []prometheus.Collector{}
	for _, c := range PromCounters {
		cs = append(cs, c)
	}

	for _, h := range PromHistograms {
		cs = append(cs, h)
	}

	return cs
}
