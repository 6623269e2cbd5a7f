package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/GanizaniSitara/monikerd/internal/config"
)

var reloadAddr string

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Trigger a hot reload on a running monikerd instance",
	RunE:  runReload,
}

func init() {
	reloadCmd.Flags().StringVar(&reloadAddr, "addr", "", "Server address (default: derived from config)")
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	addr := reloadAddr
	if addr == "" {
		cfg, err := config.Load(resolveConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		addr = cfg.Addr()
	}

	client := &http.Client{Timeout: 35 * time.Second}
	resp, err := client.Post(fmt.Sprintf("http://%s/config/reload", addr), "application/json", nil)
	if err != nil {
		return fmt.Errorf("reload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s\n", body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reload reported failure (status %d)", resp.StatusCode)
	}
	return nil
}
