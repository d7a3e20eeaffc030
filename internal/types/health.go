package types

type HealthStatus string

const (
	HealthStatusOK          HealthStatus = "ok"
	HealthStatusDegraded    HealthStatus = "degraded"
	HealthStatusMaintenance HealthStatus = "maintenance"
)

type Health struct {
	Status     HealthStatus      `json:"status"`
	InstanceID string            `json:"instance_id"`
	Version    string            `json:"version,omitempty"`
	Checks     map[string]string `json:"checks,omitempty"`
}

func (h *Health) OK() bool {
	return h != nil && h.Status == HealthStatusOK
}
