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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"wonderland.org/cmroll/internal/cm"
	"wonderland.org/cmroll/internal/service"
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls [-c|-j [-i]] [SERVICE]",
	Short: "List services, or the role instances of a service",
	Long: `With no arguments list the services configured in the cluster. With a
SERVICE name list its role instances and their current state, optionally
in CSV or JSON format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return commandLSServices()
		}
		return commandLSRoles(args[0])
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.PersistentFlags().BoolVarP(&lsCmdJSON, "json", "j", false, "Output JSON")
	lsCmd.PersistentFlags().BoolVarP(&lsCmdIndent, "indent", "i", false, "Indent / pretty print JSON")
	lsCmd.PersistentFlags().BoolVarP(&lsCmdCSV, "csv", "c", false, "Output CSV")
}

var lsCmdJSON, lsCmdCSV, lsCmdIndent bool

var lsTabWriter *tabwriter.Writer
var csvWriter *csv.Writer
var jsonEncoder *json.Encoder

func commandLSServices() (err error) {
	svcs, err := newClient().Services()
	if err != nil {
		return
	}

	switch {
	case lsCmdJSON:
		jsonEncoder = json.NewEncoder(os.Stdout)
		if lsCmdIndent {
			jsonEncoder.SetIndent("", "    ")
		}
		for _, s := range svcs {
			jsonEncoder.Encode(s)
		}
	case lsCmdCSV:
		csvWriter = csv.NewWriter(os.Stdout)
		csvWriter.Write([]string{"Name", "Type", "State", "Health"})
		for _, s := range svcs {
			csvWriter.Write([]string{s.Name, s.Type, s.ServiceState, s.HealthSummary})
		}
		csvWriter.Flush()
	default:
		lsTabWriter = tabwriter.NewWriter(os.Stdout, 3, 8, 2, ' ', 0)
		fmt.Fprintf(lsTabWriter, "Name\tType\tState\tHealth\n")
		for _, s := range svcs {
			fmt.Fprintf(lsTabWriter, "%s\t%s\t%s\t%s\n", s.Name, s.Type, s.ServiceState, s.HealthSummary)
		}
		lsTabWriter.Flush()
	}
	return
}

type lsRoleType struct {
	Type   string
	Name   string
	Host   string
	State  string
	Health string
	Config string
	Maint  bool
}

func commandLSRoles(name string) (err error) {
	svc := service.Parse(name)
	if svc == service.Unknown {
		return fmt.Errorf("unknown service %q", name)
	}
	roles, err := newClient().Roles(svc.String())
	if err != nil {
		return
	}

	switch {
	case lsCmdJSON:
		jsonEncoder = json.NewEncoder(os.Stdout)
		if lsCmdIndent {
			jsonEncoder.SetIndent("", "    ")
		}
		for _, r := range roles {
			jsonEncoder.Encode(lsRole(r))
		}
	case lsCmdCSV:
		csvWriter = csv.NewWriter(os.Stdout)
		csvWriter.Write([]string{"Type", "Name", "Host", "State", "Health", "Config", "Maintenance"})
		for _, r := range roles {
			l := lsRole(r)
			csvWriter.Write([]string{l.Type, l.Name, l.Host, l.State, l.Health, l.Config, fmt.Sprint(l.Maint)})
		}
		csvWriter.Flush()
	default:
		lsTabWriter = tabwriter.NewWriter(os.Stdout, 3, 8, 2, ' ', 0)
		fmt.Fprintf(lsTabWriter, "Type\tName\tHost\tState\tHealth\tConfig\n")
		for _, r := range roles {
			var suffix string
			if r.MaintenanceMode {
				suffix = "*"
			}
			fmt.Fprintf(lsTabWriter, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Type, r.Name+suffix, r.Host(), r.RoleState, r.HealthSummary, r.ConfigStalenessStatus)
		}
		lsTabWriter.Flush()
	}
	return
}

func lsRole(r cm.RoleInstance) lsRoleType {
	return lsRoleType{
		Type:   r.Type,
		Name:   r.Name,
		Host:   r.Host(),
		State:  r.RoleState,
		Health: r.HealthSummary,
		Config: r.ConfigStalenessStatus,
		Maint:  r.MaintenanceMode,
	}
}
