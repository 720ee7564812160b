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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration parameters",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	},
}

// setUserCmd represents the setUser command
var setUserCmd = &cobra.Command{
	Use:   "user KEY=VALUE [KEY=VALUE...]",
	Short: "Set user configuration parameters",
	Long: `Write connection settings to the user configuration file. Useful keys
are url, cluster, username, password, delay and insecure. An empty
password value prompts for the password without echoing it:

	cmroll set user url=https://cmhost:7183/api/v31 username=admin password=`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return commandSetUser(args)
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setUserCmd)
}

func commandSetUser(params []string) (err error) {
	if len(params) == 0 {
		return ErrInvalidArgs
	}
	userConfDir, err := os.UserConfigDir()
	if err != nil {
		return
	}
	return writeConfigParams(filepath.Join(userConfDir, "cmroll.json"), params)
}

func writeConfigParams(filename string, params []string) (err error) {
	vp := viper.New()
	vp.SetConfigFile(filename)
	// an absent config file just means we start from empty
	vp.ReadInConfig()

	for _, set := range params {
		s := strings.SplitN(set, "=", 2)
		if len(s) != 2 {
			logError.Printf("ignoring %q %s", set, ErrInvalidArgs)
			continue
		}
		k, v := s[0], s[1]
		if k == "password" && v == "" {
			if v, err = readPassword(); err != nil {
				return
			}
		}
		vp.Set(k, v)
	}

	if err = os.MkdirAll(filepath.Dir(filename), 0775); err != nil {
		return
	}
	return vp.WriteConfigAs(filename)
}

func readPassword() (passwd string, err error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return
	}
	return string(pw), nil
}
