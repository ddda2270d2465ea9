package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	logflux "github.com/logflux-io/logflux-go"
	"github.com/logflux-io/logflux-go/agent"
	"github.com/logflux-io/logflux-go/config"
)

var tmpConfig = config.New()
var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "logflux-cli",
	Short: "Send log entries to a local logflux agent",
	Long: `logflux-cli ships newline-delimited JSON entries to a logflux agent
over a unix socket (--socket) or tcp (--host/--port). Flags can also be set
through LOGFLUX_* environment variables or a config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	pflags := RootCmd.PersistentFlags()
	dconf := config.Default

	pflags.StringVarP(&cfgFile, "config", "c", "",
		"load configuration from `FILE`")
	pflags.BoolVarP(&tmpConfig.Verbose, "verbose", "v", dconf.Verbose,
		"print debug output")
	pflags.StringVar(&tmpConfig.SocketPath, "socket", dconf.SocketPath,
		"agent unix socket `PATH` (unix transport)")
	pflags.StringVar(&tmpConfig.Host, "host", dconf.Host,
		"agent IPv4 `ADDR` (tcp transport)")
	pflags.IntVar(&tmpConfig.Port, "port", dconf.Port,
		"agent tcp `PORT` (tcp transport)")
	pflags.DurationVar(&tmpConfig.Timeout, "timeout", dconf.Timeout,
		"connect and send timeout")
	pflags.IntVar(&tmpConfig.RetryCount, "retries", dconf.RetryCount,
		"additional connect attempts after a failure")
	pflags.DurationVar(&tmpConfig.RetryDelay, "retry-delay", dconf.RetryDelay,
		"delay between connect attempts")

	RootCmd.AddCommand(WriteCmd)
	RootCmd.AddCommand(StatusCmd)
	RootCmd.AddCommand(VersionCmd)
}

// initConfig layers viper values under the flags: anything not set on the
// command line can come from LOGFLUX_* env vars or the optional config
// file.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("logflux")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	var ferr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil && ferr == nil {
			ferr = err
		}
	})
	return ferr
}

// newClient builds a client from the accumulated flags. A non-empty
// --socket selects the unix transport, otherwise tcp with the agent secret
// loaded from its runtime directory.
func newClient() (*logflux.Client, error) {
	conf := config.New()
	*conf = *tmpConfig
	if conf.SocketPath != "" {
		conf.ConnType = config.Unix
		return logflux.New(conf)
	}

	conf.ConnType = config.TCP
	if secret, err := agent.LoadSecret(agent.OSEnv{}); err == nil {
		conf.SharedSecret = secret
	}
	return logflux.New(conf)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
