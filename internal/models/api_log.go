package models

import "time"

// APILog maps to the `api_logs` table. One row per inbound request.
type APILog struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RequestID string    `gorm:"column:request_id;size:64;index" json:"request_id"`
	Method    string    `gorm:"column:method;size:16" json:"method"`
	Path      string    `gorm:"column:path;size:500" json:"path"`
	Status    int       `gorm:"column:status" json:"status"`
	LatencyMs int64     `gorm:"column:latency_ms" json:"latency_ms"`
	IP        string    `gorm:"column:ip;size:200" json:"ip"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (APILog) TableName() string {
	return "api_logs"
}
