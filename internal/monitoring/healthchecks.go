package monitoring

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const HEALTHCHECK_TIMEOUT = 5 * time.Second

// Check probes one dependency. A nil error means healthy.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Status struct {
	Name    string
	Healthy bool
	Error   string
	Elapsed time.Duration
}

// RunChecks runs every check concurrently, each with its own timeout, and
// reports all results in the order given.
func RunChecks(ctx context.Context, checks ...Check) []Status {
	statuses := make([]Status, len(checks))

	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			statuses[i] = runCheck(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return statuses
}

func runCheck(ctx context.Context, c Check) Status {
	probeCtx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	start := time.Now()
	err := c.Probe(probeCtx)

	s := Status{Name: c.Name, Healthy: err == nil, Elapsed: time.Since(start)}
	if err != nil {
		s.Error = err.Error()
		slog.Warn("[HealthCheck] Dependency is unhealthy",
			slog.String("name", c.Name),
			slog.String("error", s.Error))
	}
	return s
}

func AllHealthy(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}
