// Command monikerd serves the moniker resolution HTTP API: it loads a
// declarative catalog, keeps it hot-reloaded, and resolves moniker strings
// against it for client libraries that would otherwise hardcode connection
// strings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "monikerd",
	Short: "monikerd - moniker resolution service",
	Long: `monikerd resolves hierarchical data identifiers ("monikers") into
concrete source-binding descriptors: source type, connection parameters,
rendered query, inherited ownership, and an access policy decision.

It sits between client libraries that want to read data and the
heterogeneous backends that actually hold it. Run "monikerd serve" to
start the HTTP API.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: monikerd.yaml, or $MONIKERD_CONFIG_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
