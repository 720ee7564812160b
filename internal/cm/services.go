package cm

type Service struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	ServiceState  string `json:"serviceState"`
	HealthSummary string `json:"healthSummary"`
}

type serviceList struct {
	Items []Service `json:"items"`
}

// Services returns the services configured in the cluster
func (c *Client) Services() (svcs []Service, err error) {
	var list serviceList
	if err = c.get(c.servicesURL(), &list); err != nil {
		return
	}
	return list.Items, nil
}
