package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GanizaniSitara/monikerd/internal/config"
	"github.com/GanizaniSitara/monikerd/internal/loader"
)

var validateCatalogPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse the declarative catalog file without starting the server",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateCatalogPath, "catalog", "", "Catalog file path (default: from config)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := validateCatalogPath
	if path == "" {
		cfg, err := config.Load(resolveConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.Catalog.Path
	}

	nodes, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("catalog is invalid: %w", err)
	}

	byStatus := make(map[string]int)
	withBinding := 0
	for _, n := range nodes {
		byStatus[string(n.Status)]++
		if n.Binding != nil {
			withBinding++
		}
	}

	fmt.Printf("%s: %d nodes valid\n", path, len(nodes))
	fmt.Printf("  with binding: %d\n", withBinding)
	for status, count := range byStatus {
		fmt.Printf("  %s: %d\n", status, count)
	}
	return nil
}
