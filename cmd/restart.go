/*
Copyright © 2022 Peter Galbavy <peter@wonderland.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"wonderland.org/cmroll/internal/cm"
	"wonderland.org/cmroll/internal/rolling"
	"wonderland.org/cmroll/internal/service"
)

// restartCmd represents the restart command
var restartCmd = &cobra.Command{
	Use:   "restart [-d DELAY] [-s|-f] [-t TYPE] [-l] SERVICE",
	Short: "Rolling restart of the role instances of a service",
	Long: `Restart the role instances of the named SERVICE one at a time, waiting
DELAY seconds between instances. By default only healthy instances are
restarted; use -s to restart only those running stale configuration, or
-f to include unhealthy ones. Instances in maintenance mode are never
restarted.

Without -t (or -s or -f) no restart happens and the role types of the
service are listed instead, to avoid restarting a whole service by
accident.

The delay is an open-loop pause - the command does not wait for the
restarted instance to come back before moving to the next one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("delay") {
			restartCmdDelay = viper.GetFloat64("delay")
		}
		return commandRestart(args[0])
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)

	restartCmd.Long += "\n\nKnown services and their typical role types:\n\n" + service.Usage()

	restartCmd.Flags().Float64VarP(&restartCmdDelay, "delay", "d", 30, "Seconds to wait between instance restarts")
	restartCmd.Flags().BoolVarP(&restartCmdStale, "stale", "s", false, "Only restart instances with stale configuration")
	restartCmd.Flags().BoolVarP(&restartCmdForce, "force", "f", false, "Restart instances even if they are unhealthy")
	restartCmd.Flags().StringVarP(&restartCmdType, "type", "t", "", "Role type to restart (e.g. NODEMANAGER)")
	restartCmd.Flags().BoolVarP(&restartCmdListTypes, "list-types", "l", false, "List role types for the service and exit")
}

var (
	restartCmdDelay                                       float64
	restartCmdStale, restartCmdForce, restartCmdListTypes bool
	restartCmdType                                        string
)

func commandRestart(name string) (err error) {
	svc := service.Parse(name)
	if svc == service.Unknown {
		return fmt.Errorf("unknown service %q, known services are: %s", name, strings.Join(service.Names(), ", "))
	}
	if restartCmdDelay < 0 {
		return fmt.Errorf("%w: delay cannot be negative", ErrInvalidArgs)
	}

	client := newClient()

	// auth or connectivity failures surface here, before anything
	// is restarted
	roles, err := client.Roles(svc.String())
	if err != nil {
		return
	}

	if restartCmdListTypes {
		printRoleTypes(roles)
		return nil
	}
	if restartCmdType == "" && !restartCmdStale && !restartCmdForce {
		log.Println("specify the role type to restart with -t, one of:")
		printRoleTypes(roles)
		return nil
	}

	selected := rolling.FilterType(roles, restartCmdType)
	if len(selected) == 0 {
		log.Println("no matching role instances, nothing to do")
		return nil
	}

	state := rolling.Healthy
	switch {
	case restartCmdStale:
		state = rolling.Stale
	case restartCmdForce:
		state = rolling.All
	}

	rr := &rolling.Restarter{
		API:   client,
		Delay: time.Duration(restartCmdDelay * float64(time.Second)),
	}

	log.Printf("restarting %s role instances of %s, %d selected", state, svc, len(selected))
	res := rr.Run(svc.String(), selected, state)
	log.Printf("done: %d restarted, %d failed, %d skipped", res.Restarted, res.Failed, res.Skipped)

	// per-instance failures are not fatal, the batch has no
	// transactional guarantee
	return nil
}

// roleTypes returns the distinct role types in the list, sorted
func roleTypes(roles []cm.RoleInstance) (types []string) {
	seen := make(map[string]bool)
	for _, r := range roles {
		if !seen[r.Type] {
			seen[r.Type] = true
			types = append(types, r.Type)
		}
	}
	sort.Strings(types)
	return
}

func printRoleTypes(roles []cm.RoleInstance) {
	for _, t := range roleTypes(roles) {
		fmt.Println(t)
	}
}
