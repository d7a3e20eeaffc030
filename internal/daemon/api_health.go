package daemon

import (
	"net/http"

	"agentdash/internal/types"
)

func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if a.Health == nil {
		writeJSON(w, http.StatusServiceUnavailable, &types.Health{
			Status:  types.HealthStatusDegraded,
			Version: a.Version,
		})
		return
	}
	health := a.Health.Check(r.Context())
	status := http.StatusOK
	if !health.OK() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}
