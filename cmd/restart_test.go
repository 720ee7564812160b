package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wonderland.org/cmroll/internal/cm"
)

var testRolesBody = `{
  "items": [
    {"name": "nm-1", "type": "NODEMANAGER", "hostRef": {"hostname": "c1-1"},
     "roleState": "STARTED", "healthSummary": "GOOD", "entityStatus": "GOOD_HEALTH",
     "configStalenessStatus": "FRESH", "maintenanceMode": false},
    {"name": "rm-1", "type": "RESOURCEMANAGER", "hostRef": {"hostname": "c1-2"},
     "roleState": "STARTED", "healthSummary": "GOOD", "entityStatus": "GOOD_HEALTH",
     "configStalenessStatus": "FRESH", "maintenanceMode": false},
    {"name": "nm-2", "type": "NODEMANAGER", "hostRef": {"hostname": "c1-3"},
     "roleState": "STARTED", "healthSummary": "GOOD", "entityStatus": "GOOD_HEALTH",
     "configStalenessStatus": "FRESH", "maintenanceMode": false}
  ]
}`

// fakeManager serves the yarn roles list and counts restart commands
func fakeManager(t *testing.T, authFail bool) (*httptest.Server, *[]string) {
	t.Helper()
	var restarted []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authFail {
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v31/clusters/cluster/services/yarn/roles/":
			w.Write([]byte(testRolesBody))
		case "/api/v31/clusters/cluster/services/yarn/roleCommands/restart":
			var names struct {
				Items []string `json:"items"`
			}
			json.NewDecoder(r.Body).Decode(&names)
			restarted = append(restarted, names.Items...)
			json.NewEncoder(w).Encode(cm.CommandList{Items: []cm.Command{{ID: 1, Active: true}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &restarted
}

func setTestConfig(t *testing.T, url string) {
	t.Helper()
	viper.Reset()
	viper.Set("url", url+"/api/v31")
	viper.Set("cluster", "cluster")
	viper.Set("username", "admin")
	viper.Set("password", "secret")
	t.Cleanup(viper.Reset)
}

func resetRestartFlags() {
	restartCmdDelay = 0
	restartCmdStale = false
	restartCmdForce = false
	restartCmdListTypes = false
	restartCmdType = ""
}

func TestRestartUnknownService(t *testing.T) {
	resetRestartFlags()
	err := commandRestart("nosuchservice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known services")
}

func TestRestartNegativeDelay(t *testing.T) {
	resetRestartFlags()
	restartCmdDelay = -1
	err := commandRestart("yarn")
	require.Error(t, err)
}

func TestRestartAuthFailureAborts(t *testing.T) {
	srv, restarted := fakeManager(t, true)
	setTestConfig(t, srv.URL)
	resetRestartFlags()
	restartCmdType = "NODEMANAGER"

	err := commandRestart("yarn")
	require.Error(t, err)
	assert.Empty(t, *restarted)
}

func TestRestartTypeFilter(t *testing.T) {
	srv, restarted := fakeManager(t, false)
	setTestConfig(t, srv.URL)
	resetRestartFlags()
	restartCmdType = "NODEMANAGER"

	err := commandRestart("yarn")
	require.NoError(t, err)
	assert.Equal(t, []string{"nm-1", "nm-2"}, *restarted)
}

func TestRestartNoMatches(t *testing.T) {
	srv, restarted := fakeManager(t, false)
	setTestConfig(t, srv.URL)
	resetRestartFlags()
	restartCmdType = "DATANODE"

	err := commandRestart("yarn")
	require.NoError(t, err)
	assert.Empty(t, *restarted)
}

func TestRestartWithoutTypeListsOnly(t *testing.T) {
	srv, restarted := fakeManager(t, false)
	setTestConfig(t, srv.URL)
	resetRestartFlags()

	err := commandRestart("yarn")
	require.NoError(t, err)
	assert.Empty(t, *restarted)
}

func TestRestartHelpListsServices(t *testing.T) {
	assert.Contains(t, restartCmd.Long, "yarn: ")
	assert.Contains(t, restartCmd.Long, "NODEMANAGER")
}

func TestRoleTypes(t *testing.T) {
	roles := []cm.RoleInstance{
		{Type: "NODEMANAGER"},
		{Type: "RESOURCEMANAGER"},
		{Type: "NODEMANAGER"},
		{Type: "JOBHISTORY"},
	}
	assert.Equal(t, []string{"JOBHISTORY", "NODEMANAGER", "RESOURCEMANAGER"}, roleTypes(roles))
}
