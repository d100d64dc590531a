package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool
	noColor bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quantkit",
	Short: "Extract quantities from unstructured text",
	Long: `quantkit finds physical quantities ("4.2 gallons", "$1.3M",
"30-35 °C") in plain English text, normalizes spelled-out numbers and
resolves compound units through dimensional analysis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command and reports the failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default quantkit.yaml, then $HOME/.quantkit/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "log every match decision to stderr")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(parseCmd, replaceCmd, expandCmd, trainCmd, snapshotCmd)
}

// initConfig wires viper: explicit file, then search paths, then
// QUANTKIT_* environment variables on top.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("quantkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".quantkit"))
		}
	}

	viper.SetEnvPrefix("QUANTKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("store.path", "quantkit.db")
	viper.SetDefault("model.path", "models")
	viper.SetDefault("parse.timeout", 2*time.Second)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func initLogger() error {
	if noColor {
		color.NoColor = true
	}
	if !debug {
		logger = zap.NewNop()
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l
	return nil
}
