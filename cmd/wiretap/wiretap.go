// Package wiretapcmder
package wiretapcmder

import (
	"github.com/spf13/cobra"

	versioncmder "github.com/papercomputeco/wiretap/cmd/version"
	configcmder "github.com/papercomputeco/wiretap/cmd/wiretap/config"
	getcmder "github.com/papercomputeco/wiretap/cmd/wiretap/get"
	servecmder "github.com/papercomputeco/wiretap/cmd/wiretap/serve"
	tailcmder "github.com/papercomputeco/wiretap/cmd/wiretap/tail"
)

const wiretapLongDesc string = `Wiretap is a small client for line-framed event streams.

Stream and inspect endpoints using:
  wiretap tail         Stream decoded frames from a server
  wiretap get          Issue a one-shot request
  wiretap serve        Run a local demo stream server`

const wiretapShortDesc string = "Wiretap - event stream client"

func NewWiretapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wiretap",
		Short: wiretapShortDesc,
		Long:  wiretapLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .wiretap/ config directory")

	// Add subcommands
	cmd.AddCommand(tailcmder.NewTailCmd())
	cmd.AddCommand(getcmder.NewGetCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
