package monitoring

import (
	"ticket-backoffice/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_attempts_total",
			Help: "Scan preview attempts by result",
		},
		[]string{"result"},
	)

	confirmsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_confirms_total",
			Help: "Confirm attempts by outcome",
		},
		[]string{"outcome"},
	)

	codesIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codes_issued_total",
			Help: "Access codes issued by type",
		},
		[]string{"type"},
	)
)

func RecordScan(result model.ScanResult) {
	scansTotal.WithLabelValues(string(result)).Inc()
}

func RecordConfirm(outcome string) {
	confirmsTotal.WithLabelValues(outcome).Inc()
}

func RecordCodesIssued(codeType model.CodeType, n int) {
	codesIssuedTotal.WithLabelValues(string(codeType)).Add(float64(n))
}
