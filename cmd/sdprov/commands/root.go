// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imamik/sdprov/cmd/sdprov/handlers"
	"github.com/imamik/sdprov/internal/config"
)

// EnvPrefix prefixes the environment variables read by the CLI.
const EnvPrefix = "SDPROV"

// Root returns the root command for the sdprov CLI.
//
// Persistent flags may also be set through SDPROV_* environment variables,
// e.g. SDPROV_CONFIG or SDPROV_LOG_LEVEL. The engine admin password is only
// read from SDPROV_ADMIN_PASSWORD.
func Root() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("admin-password")

	g := &handlers.Globals{}

	cmd := &cobra.Command{
		Use:           "sdprov",
		Short:         "Provision the hosted engine storage domain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := handlers.NewLogger(v.GetString("log-level"), v.GetString("log-format"), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g.Log = log
			g.ConfigPath = v.GetString("config")
			g.AdminPassword = v.GetString("admin-password")
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", config.DefaultSettingsPath, "Path to settings file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", handlers.LogFormatText, "Log format (text, json)")
	_ = v.BindPFlags(pf)

	cmd.AddCommand(Provision(g))
	cmd.AddCommand(Discover(g))
	cmd.AddCommand(Cleanup(g))
	cmd.AddCommand(Doctor(g))
	cmd.AddCommand(Version(g))
	cmd.AddCommand(Completion())

	return cmd
}
