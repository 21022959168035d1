// Package cmd wires the FlowMetriQ CLI: log ingestion, process analysis,
// Monte-Carlo simulation, and the HTTP server.
package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logLevel   string // Log verbosity level
	dbPath     string // SQLite database path for stored logs and results
	jsonOutput bool   // Emit JSON instead of rendered tables
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "flowmetriq",
	Short: "Process mining and what-if simulation for event logs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		dbPath = viper.GetString("db")
		jsonOutput = viper.GetBool("json")
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up persistent flags and environment binding
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "flowmetriq.db", "Path to the SQLite database")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")

	viper.SetEnvPrefix("FLOWMETRIQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
