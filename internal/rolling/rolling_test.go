package rolling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wonderland.org/cmroll/internal/cm"
)

type fakeAPI struct {
	roles     []cm.RoleInstance
	restarted []string
	failWith  map[string]error
	rejected  map[string][]string
}

func (f *fakeAPI) Roles(service string) ([]cm.RoleInstance, error) {
	return f.roles, nil
}

func (f *fakeAPI) RestartRoles(service string, names ...string) (*cm.CommandList, error) {
	f.restarted = append(f.restarted, names...)
	if err := f.failWith[names[0]]; err != nil {
		return nil, err
	}
	if errs := f.rejected[names[0]]; len(errs) > 0 {
		return &cm.CommandList{Errors: errs}, nil
	}
	return &cm.CommandList{Items: []cm.Command{{ID: 1, Name: "Restart", Active: true}}}, nil
}

func role(name, rtype, host string) cm.RoleInstance {
	return cm.RoleInstance{
		Name:                  name,
		Type:                  rtype,
		HostRef:               cm.HostRef{Hostname: host},
		RoleState:             cm.StateStarted,
		HealthSummary:         cm.HealthGood,
		EntityStatus:          cm.EntityHealthy,
		ConfigStalenessStatus: cm.ConfigFresh,
	}
}

func TestFilterType(t *testing.T) {
	roles := []cm.RoleInstance{
		role("nm-1", "NODEMANAGER", "c1-1"),
		role("rm-1", "RESOURCEMANAGER", "c1-2"),
		role("nm-2", "NODEMANAGER", "c1-3"),
		role("nm-3", "nodemanager", "c1-4"), // case sensitive, excluded
	}

	selected := FilterType(roles, "NODEMANAGER")
	require.Len(t, selected, 2)
	assert.Equal(t, "nm-1", selected[0].Name)
	assert.Equal(t, "nm-2", selected[1].Name)

	assert.Empty(t, FilterType(roles, "DATANODE"))
	assert.Len(t, FilterType(roles, ""), 4)
}

func TestStateMatch(t *testing.T) {
	healthy := role("nm-1", "NODEMANAGER", "c1-1")

	stale := healthy
	stale.ConfigStalenessStatus = cm.ConfigStale

	stopped := healthy
	stopped.RoleState = "STOPPED"

	maint := stale
	maint.MaintenanceMode = true

	tests := []struct {
		name  string
		state State
		role  cm.RoleInstance
		want  bool
	}{
		{"healthy matches healthy", Healthy, healthy, true},
		{"healthy matches stale-but-healthy", Healthy, stale, true},
		{"healthy rejects stopped", Healthy, stopped, false},
		{"stale rejects fresh", Stale, healthy, false},
		{"stale matches stale", Stale, stale, true},
		{"stale rejects stale stopped", Stale, stopped, false},
		{"all matches stopped", All, stopped, true},
		{"all rejects maintenance", All, maint, false},
		{"stale rejects maintenance", Stale, maint, false},
		{"healthy rejects maintenance", Healthy, maint, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Match(tt.role))
		})
	}
}

func TestRunRestartsInOrder(t *testing.T) {
	api := &fakeAPI{}
	rr := &Restarter{API: api}

	roles := []cm.RoleInstance{
		role("nm-2", "NODEMANAGER", "c1-2"),
		role("nm-1", "NODEMANAGER", "c1-1"),
		role("nm-3", "NODEMANAGER", "c1-3"),
	}
	res := rr.Run("yarn", roles, Healthy)

	// order as given, not sorted
	assert.Equal(t, []string{"nm-2", "nm-1", "nm-3"}, api.restarted)
	assert.Equal(t, Result{Restarted: 3}, res)
}

func TestRunSkipsUnmatched(t *testing.T) {
	api := &fakeAPI{}
	rr := &Restarter{API: api}

	stale := role("nm-1", "NODEMANAGER", "c1-1")
	stale.ConfigStalenessStatus = cm.ConfigStale
	fresh := role("nm-2", "NODEMANAGER", "c1-2")

	res := rr.Run("yarn", []cm.RoleInstance{stale, fresh}, Stale)

	assert.Equal(t, []string{"nm-1"}, api.restarted)
	assert.Equal(t, Result{Restarted: 1, Skipped: 1}, res)
}

func TestRunEmptyList(t *testing.T) {
	api := &fakeAPI{}
	rr := &Restarter{API: api, Delay: time.Hour}

	res := rr.Run("yarn", nil, Healthy)

	assert.Empty(t, api.restarted)
	assert.Equal(t, Result{}, res)
}

func TestRunDelayBetweenRestarts(t *testing.T) {
	api := &fakeAPI{}
	delay := 25 * time.Millisecond
	rr := &Restarter{API: api, Delay: delay}

	roles := []cm.RoleInstance{
		role("nm-1", "NODEMANAGER", "c1-1"),
		role("nm-2", "NODEMANAGER", "c1-2"),
		role("nm-3", "NODEMANAGER", "c1-3"),
	}

	start := time.Now()
	res := rr.Run("yarn", roles, Healthy)
	elapsed := time.Since(start)

	assert.Equal(t, 3, res.Restarted)
	// two pauses between three restarts, none after the last
	assert.GreaterOrEqual(t, elapsed, 2*delay)
}

func TestRunContinuesAfterFailure(t *testing.T) {
	api := &fakeAPI{
		failWith: map[string]error{"nm-2": errors.New("connection reset")},
	}
	rr := &Restarter{API: api}

	roles := []cm.RoleInstance{
		role("nm-1", "NODEMANAGER", "c1-1"),
		role("nm-2", "NODEMANAGER", "c1-2"),
		role("nm-3", "NODEMANAGER", "c1-3"),
	}
	res := rr.Run("yarn", roles, Healthy)

	// the failed instance does not stop the batch
	assert.Equal(t, []string{"nm-1", "nm-2", "nm-3"}, api.restarted)
	assert.Equal(t, Result{Restarted: 2, Failed: 1}, res)
}

func TestRunRejectedCommand(t *testing.T) {
	api := &fakeAPI{
		rejected: map[string][]string{"nm-1": {"Command Restart is already running"}},
	}
	rr := &Restarter{API: api}

	roles := []cm.RoleInstance{
		role("nm-1", "NODEMANAGER", "c1-1"),
		role("nm-2", "NODEMANAGER", "c1-2"),
	}
	res := rr.Run("yarn", roles, Healthy)

	assert.Equal(t, Result{Restarted: 1, Failed: 1}, res)
}
