package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration inspection",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

type effectiveConfig struct {
	Unit               string        `yaml:"unit"`
	AverageInterval    time.Duration `yaml:"avg_interval"`
	CumulativeInterval time.Duration `yaml:"cum_interval"`
	Output             string        `yaml:"output,omitempty"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig{
		Unit:               unitName,
		AverageInterval:    avgInterval,
		CumulativeInterval: cumInterval,
		Output:             outputPath,
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	os.Stdout.Write(data)
	return nil
}
