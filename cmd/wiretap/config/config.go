// Package configcmder provides the config command for managing persistent
// wiretap configuration stored in the .wiretap/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent wiretap configuration.

Configuration is stored as config.toml in the .wiretap/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  client.target, client.timeout_ms,
  tail.path,
  serve.listen, serve.interval_ms, serve.count

Use subcommands to get, set, or list configuration values:
  wiretap config set <key> <value>    Set a configuration value
  wiretap config get <key>            Get a configuration value
  wiretap config list                 List all configuration values

Examples:
  wiretap config set client.target http://localhost:9000
  wiretap config set serve.count 50
  wiretap config get tail.path
  wiretap config list`

const configShortDesc string = "Manage persistent wiretap configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
