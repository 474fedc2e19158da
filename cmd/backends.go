package cmd

import (
	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/output"
	"github.com/spf13/cobra"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available DOM backends",
	Long:  "List the DOM backends extraction can run on, and which one the current config selects.",
	RunE:  runBackends,
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

// backendEntry is the output for one backend.
type backendEntry struct {
	Name    string `yaml:"name"              json:"name"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

func runBackends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	entries := []backendEntry{}
	for _, name := range dom.Backends() {
		entries = append(entries, backendEntry{Name: name, Default: name == cfg.Backend})
	}
	return output.Print(entries)
}
