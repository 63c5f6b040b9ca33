// Package main provides the aranea command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/silkome/aranea/internal/predict"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aranea",
		Short: "Spidroin gene curation from protein-to-genome alignments",
		Long: `aranea infers spider silk protein (spidroin) gene coordinates from
miniprot terminal-domain alignment evidence and decides which inferred
genes are trustworthy.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.aranea.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newPredictCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".aranea")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("aranea")
	viper.AutomaticEnv()

	viper.SetDefault("min_length", 1000)
	viper.SetDefault("max_length", 100000)
	viper.SetDefault("extension_length", 10000)
	viper.SetDefault("positive_threshold", 0.75)

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI logger. Debug logging uses the development
// encoder for readable per-record output.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// optionsFromConfig assembles inference thresholds from config and flags.
func optionsFromConfig() predict.Options {
	return predict.Options{
		MinLength:         viper.GetInt64("min_length"),
		MaxLength:         viper.GetInt64("max_length"),
		ExtensionLength:   viper.GetInt64("extension_length"),
		PositiveThreshold: viper.GetFloat64("positive_threshold"),
	}
}
