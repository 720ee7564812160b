package rolling

import (
	"time"

	"wonderland.org/cmroll/internal/cm"
	"wonderland.org/cmroll/pkg/logger"
)

var (
	log      = logger.Log
	logDebug = logger.Debug
	logError = logger.Error
)

// Roler is the slice of the manager API the restart loop needs. The
// live implementation is cm.Client.
type Roler interface {
	Roles(service string) ([]cm.RoleInstance, error)
	RestartRoles(service string, names ...string) (*cm.CommandList, error)
}

// State selects which role instances a run is allowed to restart
type State string

const (
	// Healthy restarts only instances that are started, in good
	// health and not in maintenance mode
	Healthy State = "healthy"
	// Stale restarts only healthy instances running stale configuration
	Stale State = "stale"
	// All restarts everything except maintenance mode instances
	All State = "all"
)

func (s State) Match(r cm.RoleInstance) bool {
	switch s {
	case Stale:
		return r.Healthy() && r.Stale()
	case All:
		return !r.MaintenanceMode
	default:
		return r.Healthy()
	}
}

// FilterType returns the instances whose role type is exactly t,
// keeping the original order. An empty t matches everything.
func FilterType(roles []cm.RoleInstance, t string) (selected []cm.RoleInstance) {
	if t == "" {
		return roles
	}
	for _, r := range roles {
		if r.Type == t {
			selected = append(selected, r)
		}
	}
	return
}

type Result struct {
	Restarted int
	Failed    int
	Skipped   int
}

type Restarter struct {
	API Roler

	// pause between consecutive restart commands. open loop - the
	// run never polls the restarted instance for readiness.
	Delay time.Duration
}

// Run restarts the given instances of service one at a time in the
// order given, skipping those not matching state. A failed restart is
// reported and the run carries on with the next instance.
func (rr *Restarter) Run(service string, roles []cm.RoleInstance, state State) (res Result) {
	attempted := false
	for _, role := range roles {
		if !state.Match(role) {
			log.Println("skipping", role.Host(), "("+role.Name+")")
			res.Skipped++
			continue
		}

		if attempted && rr.Delay > 0 {
			logDebug.Println("waiting", rr.Delay, "before next restart")
			time.Sleep(rr.Delay)
		}
		attempted = true

		log.Println("restarting", role.Type, "on", role.Host())
		result, err := rr.API.RestartRoles(service, role.Name)
		if err != nil {
			logError.Println("restart of", role.Name, "on", role.Host(), "failed:", err)
			res.Failed++
			continue
		}
		if len(result.Errors) > 0 {
			logError.Println("restart of", role.Name, "on", role.Host(), "rejected:", result.Errors)
			res.Failed++
			continue
		}
		res.Restarted++
	}
	return
}
