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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"wonderland.org/cmroll/internal/cm"
	"wonderland.org/cmroll/pkg/logger"
)

// give these more convenient names and also shadow the std log
// package for normal logging
var (
	log      = logger.Log
	logDebug = logger.Debug
	logError = logger.Error
)

var (
	ErrInvalidArgs error = errors.New("invalid arguments")
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmroll",
	Short: "Rolling restarts of service role instances via Cloudera Manager",
	Long: `Rolling restarts of Hadoop service role instances through the Cloudera
Manager API. With 'cmroll' you can list the services in a cluster, list
the role instances of a service, and restart them one at a time with a
pause between each so the service stays available.`,
	SilenceUsage: true,
	Annotations:  make(map[string]string),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		// everything except local configuration changes talks to the API
		if cmd == setCmd || cmd == setUserCmd {
			return
		}
		if viper.GetString("url") == "" {
			cmd.SetUsageTemplate(" ")
			return fmt.Errorf("%s", `The Cloudera Manager endpoint is not set.

You can fix this by doing one of the following:

1. Save the endpoint and credentials in your user's configuration file:

	$ cmroll set user url=https://cmhost:7183/api/v31 username=admin password=

2. Set the CMROLL_URL (and CMROLL_USERNAME etc.) environment variables:

	$ export CMROLL_URL=https://cmhost:7183/api/v31

3. Pass a configuration file with --config`)
		}
		return
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var debug, quiet bool

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "G", "", "config file (defaults are $HOME/.config/cmroll.json, /etc/cmroll/cmroll.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable extra debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode")
	rootCmd.PersistentFlags().MarkHidden("debug")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if quiet {
		log.SetOutput(io.Discard)
	} else if debug {
		logger.EnableDebugLog()
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserConfigDir()
		cobra.CheckErr(err)

		// Search config in home directory with name "cmroll" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/cmroll")
		viper.SetConfigType("json")
		viper.SetConfigName("cmroll")
	}

	viper.SetDefault("cluster", "cluster")
	viper.SetDefault("delay", 30.0)

	viper.SetEnvPrefix("cmroll")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// newClient builds the API client from the loaded configuration
func newClient() *cm.Client {
	return cm.New(
		viper.GetString("url"),
		viper.GetString("cluster"),
		viper.GetString("username"),
		viper.GetString("password"),
		viper.GetBool("insecure"),
	)
}
