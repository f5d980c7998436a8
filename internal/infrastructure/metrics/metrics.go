package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 리컨실리에이션 패스 관련 메트릭
	ReconcilePassCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostnet_reconcile_passes_total",
			Help: "Total number of reconciliation passes executed",
		},
	)

	ReconcilePassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostnet_reconcile_pass_duration_seconds",
			Help:    "Time spent in each reconciliation pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// 엔티티 처리 관련 메트릭
	EntitiesConfigured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_entities_configured_total",
			Help: "Total number of network entities configured",
		},
		[]string{"kind", "status"}, // nic/bond/bridge/vlan, success/failed
	)

	EntitiesRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_entities_removed_total",
			Help: "Total number of network entities removed",
		},
		[]string{"kind", "status"},
	)

	// 트랜잭션 관련 메트릭
	RollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostnet_rollbacks_total",
			Help: "Total number of transaction rollbacks",
		},
	)

	// 활성화 관련 메트릭
	AsyncActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_async_dhcp_activations_total",
			Help: "Total number of detached DHCP activations",
		},
		[]string{"status"}, // success, failed
	)

	BondResyncAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostnet_bond_resync_attempts_total",
			Help: "Total number of VLAN-over-bond hwaddr resync attempts",
		},
	)

	// 데이터베이스 연결 관련 메트릭
	DBConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostnet_db_connection_status",
			Help: "Database connection status (1 = connected, 0 = disconnected)",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostnet_db_query_duration_seconds",
			Help:    "Time spent executing database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"}, // get_pending_records, update_record_status
	)

	// 폴링 관련 메트릭
	PollingBackoffLevel = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostnet_polling_backoff_level",
			Help: "Current backoff level (0 = no backoff)",
		},
	)

	// 에러 메트릭
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"}, // validation, system, ownership, activation, ...
	)

	// 시스템 정보
	AgentInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hostnet_agent_info",
			Help: "Agent information",
		},
		[]string{"version", "node_name"},
	)
)

// RecordReconcilePass는 리컨실리에이션 패스 메트릭을 기록합니다
func RecordReconcilePass(duration time.Duration) {
	ReconcilePassCount.Inc()
	ReconcilePassDuration.Observe(duration.Seconds())
}

// RecordEntityConfigured는 엔티티 설정 결과를 기록합니다
func RecordEntityConfigured(kind, status string) {
	EntitiesConfigured.WithLabelValues(kind, status).Inc()
}

// RecordEntityRemoved는 엔티티 제거 결과를 기록합니다
func RecordEntityRemoved(kind, status string) {
	EntitiesRemoved.WithLabelValues(kind, status).Inc()
}

// RecordRollback은 트랜잭션 롤백을 기록합니다
func RecordRollback() {
	RollbacksTotal.Inc()
}

// RecordAsyncActivation은 분리된 DHCP 활성화 결과를 기록합니다
func RecordAsyncActivation(status string) {
	AsyncActivationsTotal.WithLabelValues(status).Inc()
}

// RecordBondResyncAttempt는 VLAN/본드 hwaddr 동기화 시도를 기록합니다
func RecordBondResyncAttempt() {
	BondResyncAttemptsTotal.Inc()
}

// ObserveDBQuery는 데이터베이스 쿼리 시간을 기록합니다
func ObserveDBQuery(queryType string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

// RecordError는 에러 발생을 기록합니다
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetBackoffLevel은 현재 백오프 레벨을 설정합니다
func SetBackoffLevel(level float64) {
	PollingBackoffLevel.Set(level)
}

// SetDBConnectionStatus는 데이터베이스 연결 상태를 설정합니다
func SetDBConnectionStatus(connected bool) {
	if connected {
		DBConnectionStatus.Set(1)
	} else {
		DBConnectionStatus.Set(0)
	}
}

// SetAgentInfo는 에이전트 정보를 설정합니다
func SetAgentInfo(version, nodeName string) {
	AgentInfo.WithLabelValues(version, nodeName).Set(1)
}
