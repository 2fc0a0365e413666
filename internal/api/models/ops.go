package models

import "time"

// HealthStatus represents the health status of the service.
type HealthStatus string

// Health status values.
const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Health is the response for liveness and readiness checks.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SubsystemStatus reports one dependency's health.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
}

// SystemStatus is the response for GET /v1/ops/status.
type SystemStatus struct {
	Status     HealthStatus      `json:"status"`
	Time       time.Time         `json:"time"`
	Subsystems []SubsystemStatus `json:"subsystems"`
}
