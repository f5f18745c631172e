// Package cmd implements the pricewatch CLI commands.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pricewatch/internal/config"
)

const defaultConfigPath = "config.yaml"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "pricewatch",
		Short: "Track product prices and get notified on drops",
		Long: "pricewatch monitors product listing pages, keeps a durable catalog of\n" +
			"tracked items, and emails you when a price drops to or below your target.\n" +
			"Run it as an API server with 'serve' or operate the catalog directly\n" +
			"from the terminal.",
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default "+defaultConfigPath+")")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(testEmailCmd())
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCommand())
}

func initConfig() {
	viper.SetEnvPrefix("PRICEWATCH")
	viper.AutomaticEnv()
}

// loadConfig reads the config file when one exists. A missing default file
// is not an error: CLI use against a local CSV catalog needs no config at
// all. An explicitly named file must exist.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}

	if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(defaultConfigPath)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
