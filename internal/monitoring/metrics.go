package monitoring

import (
	"time"

	apperrors "league-core/pkg/app_errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OpPurchaseTicket    = "purchase_ticket"
	OpRefundTicket      = "refund_ticket"
	OpRecordMatchResult = "record_match_result"

	OutcomeOK = "ok"
)

var (
	workflowTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "league_workflow_total",
			Help: "Transactional workflow calls by outcome",
		},
		[]string{"operation", "outcome"},
	)

	workflowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "league_workflow_duration_seconds",
			Help:    "Duration of transactional workflows, lock waits included",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"operation"},
	)

	projectionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "league_projection_events_total",
			Help: "League events handled by the projection worker",
		},
		[]string{"type", "status"},
	)
)

// Outcome 成功為 ok，失敗為錯誤分類
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return apperrors.KindOf(err).String()
}

// ObserveWorkflow 用法：defer monitoring.ObserveWorkflow(op, time.Now(), &err)
func ObserveWorkflow(operation string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	workflowTotal.WithLabelValues(operation, Outcome(err)).Inc()
	workflowDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func RecordProjection(eventType string, status string) {
	projectionEvents.WithLabelValues(eventType, status).Inc()
}
