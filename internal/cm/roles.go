package cm

// role instance states as reported by the API
const (
	ConfigStale   = "STALE"
	ConfigFresh   = "FRESH"
	StateStarted  = "STARTED"
	HealthGood    = "GOOD"
	EntityHealthy = "GOOD_HEALTH"
)

type HostRef struct {
	Hostname string `json:"hostname"`
}

type ServiceRef struct {
	ClusterName string `json:"clusterName"`
	ServiceName string `json:"serviceName"`
}

// RoleInstance is one running process of a role type within a
// service, e.g. the NODEMANAGER on one host of a yarn service
type RoleInstance struct {
	Name                  string     `json:"name"`
	Type                  string     `json:"type"`
	HostRef               HostRef    `json:"hostRef"`
	ServiceRef            ServiceRef `json:"serviceRef"`
	RoleState             string     `json:"roleState"`
	HealthSummary         string     `json:"healthSummary"`
	EntityStatus          string     `json:"entityStatus"`
	ConfigStalenessStatus string     `json:"configStalenessStatus"`
	MaintenanceMode       bool       `json:"maintenanceMode"`
}

func (r RoleInstance) Host() string {
	return r.HostRef.Hostname
}

// Stale reports whether the instance runs with configuration older
// than what is currently assigned to it
func (r RoleInstance) Stale() bool {
	return r.ConfigStalenessStatus == ConfigStale
}

// Healthy is the restart-safety check: started, in good health and
// not in maintenance mode
func (r RoleInstance) Healthy() bool {
	return !r.MaintenanceMode &&
		r.RoleState == StateStarted &&
		r.EntityStatus == EntityHealthy &&
		r.HealthSummary == HealthGood
}

type roleList struct {
	Items []RoleInstance `json:"items"`
}

// Roles returns all role instances of the named service, in the order
// the API reports them
func (c *Client) Roles(service string) (roles []RoleInstance, err error) {
	var list roleList
	if err = c.get(c.servicesURL()+service+"/roles/", &list); err != nil {
		return
	}
	return list.Items, nil
}
