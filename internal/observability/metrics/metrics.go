package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the CV request pipeline.
type IntakeMetrics struct {
	requestsTotal *prometheus.CounterVec
	emailsTotal   *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "intake",
			Name:      "cv_requests_total",
			Help:      "Total CV request submissions by outcome",
		}, []string{"outcome"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "intake",
			Name:      "emails_total",
			Help:      "Total outbound notification emails",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.emailsTotal)
	return m
}

// ObserveRequest counts one submission outcome (accepted, rejected,
// rate_limited, storage_error).
func (m *IntakeMetrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveEmail counts one email send attempt.
func (m *IntakeMetrics) ObserveEmail(kind string, sent bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !sent {
		status = "failed"
	}
	m.emailsTotal.WithLabelValues(kind, status).Inc()
}
