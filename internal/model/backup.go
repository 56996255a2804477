package model

import (
	"time"
)

type BackupStatus string

const (
	BackupStatusCompleted BackupStatus = "completed"
	BackupStatusFailed    BackupStatus = "failed"
)

type BackupTrigger string

const (
	BackupTriggerAdmin BackupTrigger = "admin"
	BackupTriggerCron  BackupTrigger = "cron"
)

type BackupExport struct {
	ID          string        `db:"id" json:"id"`
	ObjectKey   string        `db:"object_key" json:"objectKey"`
	SizeBytes   int64         `db:"size_bytes" json:"sizeBytes"`
	Status      BackupStatus  `db:"status" json:"status"`
	TriggeredBy BackupTrigger `db:"triggered_by" json:"triggeredBy"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
}

type CreateBackupExportParams struct {
	ObjectKey   string
	SizeBytes   int64
	Status      BackupStatus
	TriggeredBy BackupTrigger
}
