package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/slidescene/internal/server"
	"github.com/mj1618/slidescene/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing slide extraction",
	Long: `Start a Model Context Protocol (MCP) server that exposes extraction as tools.
Results are cached per source for --cache-ttl so agents can query the same
deck with different filters without reloading it.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  slidescene serve
  slidescene serve --transport streamable-http --port 8080
  slidescene serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 60000, "Extraction result cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	appCfg, err := loadConfig()
	if err != nil {
		return err
	}
	runner, err := server.NewRunner(appCfg, logger)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Version:   version.Version,
	}
	srv := server.New(runner, cfg, logger)
	if err := srv.Serve(cfg); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
