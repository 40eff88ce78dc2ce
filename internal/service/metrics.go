package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 业务操作指标，经私有端口 /metrics 暴露
var (
	versionSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_sync_version_saves_total",
			Help: "Total number of version snapshot saves, partitioned by content type.",
		},
		[]string{"content_type"},
	)

	versionSaveSkipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_sync_version_save_skips_total",
			Help: "Total number of saves skipped because content was unchanged.",
		},
	)

	rollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_sync_rollbacks_total",
			Help: "Total number of rollback attempts, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	changesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_sync_changes_recorded_total",
			Help: "Total number of change log entries recorded, partitioned by origin.",
		},
		[]string{"origin"},
	)

	conflictsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_sync_conflicts_recorded_total",
			Help: "Total number of sync conflicts recorded.",
		},
	)

	conflictsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_sync_conflicts_resolved_total",
			Help: "Total number of sync conflicts resolved, partitioned by resolution.",
		},
		[]string{"resolution"},
	)
)

const (
	rollbackOutcomeSuccess     = "success"
	rollbackOutcomeNotFound    = "not_found"
	rollbackOutcomeApplyFailed = "apply_failed"

	changeOriginLocal  = "local"
	changeOriginRemote = "remote"
)
