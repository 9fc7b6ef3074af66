package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	PostingsRecorded prometheus.Counter
	PostingsReplayed prometheus.Counter
	PostingsReversed prometheus.Counter
	PostingAmount    prometheus.Histogram
	PostingErrors    *prometheus.CounterVec

	// Party metrics
	PartiesCreated *prometheus.CounterVec

	// Balance metrics
	SnapshotRecomputes prometheus.Counter
	DriftChecks        prometheus.Counter
	DriftDetected      *prometheus.CounterVec

	// Supplier metrics
	SupplierPayments prometheus.Counter
	CreditNotes      prometheus.Counter

	// Stock metrics
	StockMovements prometheus.Counter

	// Outbox metrics
	OutboxPublished   prometheus.Counter
	OutboxPublishErrs prometheus.Counter
	OutboxLagSeconds  prometheus.Histogram

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		PostingsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_postings_recorded_total",
			Help: "Total number of postings recorded",
		}),
		PostingsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_postings_replayed_total",
			Help: "Total number of idempotent replays served",
		}),
		PostingsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_postings_reversed_total",
			Help: "Total number of postings reversed",
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_posting_amount",
			Help:    "Absolute posting leg amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),

		// Party metrics
		PartiesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_parties_created_total",
				Help: "Total number of parties created by kind",
			},
			[]string{"kind"},
		),

		// Balance metrics
		SnapshotRecomputes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_snapshot_recomputes_total",
			Help: "Total number of balance snapshot recomputations",
		}),
		DriftChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_drift_checks_total",
			Help: "Total number of drift verifications performed",
		}),
		DriftDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_drift_detected_total",
				Help: "Total number of drift detections by party",
			},
			[]string{"party_id"},
		),

		// Supplier metrics
		SupplierPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_supplier_payments_total",
			Help: "Total number of supplier payments recorded",
		}),
		CreditNotes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_credit_notes_total",
			Help: "Total number of supplier credit notes recorded",
		}),

		// Stock metrics
		StockMovements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_stock_movements_total",
			Help: "Total number of stock movements linked to postings",
		}),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		OutboxPublishErrs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_publish_errors_total",
			Help: "Total number of outbox publish failures",
		}),
		OutboxLagSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_outbox_lag_seconds",
			Help:    "Delay between event creation and publication",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
