package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	unitName    string
	avgInterval time.Duration
	cumInterval time.Duration
	outputPath  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "profdemo",
	Short: "Demonstration of the profiler timing library",
	Long: `profdemo exercises the profiler library: manual timers, scoped timers,
average and cumulative aggregation, background logging loops and
runtime-reconfigurable output.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.profdemo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&unitName, "unit", "", "display unit: ns, us, ms, s, min, h, d")
	rootCmd.PersistentFlags().DurationVar(&avgInterval, "avg-interval", 0, "average loop sleep duration")
	rootCmd.PersistentFlags().DurationVar(&cumInterval, "cum-interval", 0, "cumulative loop sleep duration")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "write measurement output to this file instead of stdout")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".profdemo"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("profdemo")
	viper.AutomaticEnv()

	viper.SetDefault("unit", "s")
	viper.SetDefault("avg_interval", time.Second)
	viper.SetDefault("cum_interval", time.Second)

	// Config file is optional; flags override it
	_ = viper.ReadInConfig()

	if unitName == "" {
		unitName = viper.GetString("unit")
	}
	if avgInterval == 0 {
		avgInterval = viper.GetDuration("avg_interval")
	}
	if cumInterval == 0 {
		cumInterval = viper.GetDuration("cum_interval")
	}
	if outputPath == "" {
		outputPath = viper.GetString("output")
	}
}
