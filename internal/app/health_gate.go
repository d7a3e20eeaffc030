package app

import "agentdash/internal/types"

type healthPhase int

const (
	healthPending healthPhase = iota
	healthHealthy
	healthMaintenance
)

// healthGate decides whether the shell or the maintenance view is shown.
// Like the thread list it applies results last-request-wins.
type healthGate struct {
	phase      healthPhase
	issuedSeq  int
	appliedSeq int
	status     types.HealthStatus
	lastErr    error
}

func (g *healthGate) NextSeq() int {
	g.issuedSeq++
	return g.issuedSeq
}

// Apply records a health result and reports whether it was applied. Any
// transport error or non-ok status gates the UI.
func (g *healthGate) Apply(seq int, health *types.Health, err error) bool {
	if seq < g.appliedSeq {
		return false
	}
	g.appliedSeq = seq
	g.lastErr = err
	g.status = ""
	if health != nil {
		g.status = health.Status
	}
	if err == nil && health.OK() {
		g.phase = healthHealthy
	} else {
		g.phase = healthMaintenance
	}
	return true
}

func (g *healthGate) Phase() healthPhase {
	return g.phase
}

func (g *healthGate) Healthy() bool {
	return g.phase == healthHealthy
}
