package cm

// Command is a server-side command started by a roleCommands endpoint
type Command struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CommandList is the bulk command result. Roles the server refused to
// act on, e.g. with a restart already in progress, appear in Errors
// rather than failing the whole request.
type CommandList struct {
	Items  []Command `json:"items"`
	Errors []string  `json:"errors"`
}

type roleNames struct {
	Items []string `json:"items"`
}

// RestartRoles issues a restart command for the named role instances
// of a service
func (c *Client) RestartRoles(service string, names ...string) (result *CommandList, err error) {
	result = &CommandList{}
	err = c.post(c.servicesURL()+service+"/roleCommands/restart", roleNames{Items: names}, result)
	return
}
