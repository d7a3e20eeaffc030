package daemon

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"agentdash/internal/logging"
	"agentdash/internal/types"
)

const defaultHealthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthService pings every dependency concurrently. Any failed ping
// degrades the daemon. A healthy daemon still reports maintenance when the
// maintenance setting is on.
type HealthService struct {
	instanceID string
	version    string
	checks     map[string]Pinger
	settings   *SettingsService
	timeout    time.Duration
	logger     logging.Logger
}

func NewHealthService(instanceID, version string, checks map[string]Pinger, settings *SettingsService, logger logging.Logger) *HealthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HealthService{
		instanceID: instanceID,
		version:    version,
		checks:     checks,
		settings:   settings,
		timeout:    defaultHealthCheckTimeout,
		logger:     logger,
	}
}

func (s *HealthService) Check(ctx context.Context) *types.Health {
	health := &types.Health{
		Status:     types.HealthStatusOK,
		InstanceID: s.instanceID,
		Version:    s.version,
		Checks:     map[string]string{},
	}
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(checkCtx)
	for _, name := range names {
		pinger := s.checks[name]
		group.Go(func() error {
			result := "ok"
			if pinger == nil {
				result = "missing"
			} else if err := pinger.Ping(groupCtx); err != nil {
				result = err.Error()
				s.logger.Warn("health_check_failed", logging.F("check", name), logging.F("error", err))
			}
			mu.Lock()
			health.Checks[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	for _, result := range health.Checks {
		if result != "ok" {
			health.Status = types.HealthStatusDegraded
			return health
		}
	}

	maintenance, err := s.settings.MaintenanceMode(checkCtx)
	if err != nil {
		s.logger.Warn("health_maintenance_lookup_failed", logging.F("error", err))
		health.Checks["settings"] = err.Error()
		health.Status = types.HealthStatusDegraded
		return health
	}
	if maintenance {
		health.Status = types.HealthStatusMaintenance
	}
	return health
}
