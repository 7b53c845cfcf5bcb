// Command searchctl runs one unified search or trends lookup from the
// terminal, using the same configuration and wiring as the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/injector"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "searchctl",
	Short: "Query the unified search service without running the HTTP server",
	Long: `searchctl loads the service configuration, wires the same sources and
answer providers the server uses, and prints the result as JSON.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (defaults and environment only when empty)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log to stderr at debug level")
}

// toolkit loads configuration and builds the use cases
func toolkit(cmd *cobra.Command) (*injector.Toolkit, func(), error) {
	path, _ := cmd.Flags().GetString("config")
	config, err := conf.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg := config.Log
		cfg.Level = "debug"
		cfg.Output = "stderr"
		if log, err = logger.New(&cfg); err != nil {
			return nil, nil, err
		}
	}

	return injector.InitializeToolkit(config, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
