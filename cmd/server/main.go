package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	memoryOnly bool
	staticDir  string
)

var rootCmd = &cobra.Command{
	Use:   "micampo",
	Short: "MiCampo farm dashboard backend",
	Long: `Serves the MiCampo dashboard API: plots, animals, supplies and tasks,
demo authentication, weather and the farm assistant chat.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the weather refresher",
	RunE:  runServe,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "optional YAML config file")
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&memoryOnly, "memory", false, "keep state in memory only (no database file)")
		cmd.Flags().StringVar(&staticDir, "static", "static", "directory with the built dashboard, served at /")
	}
	rootCmd.AddCommand(serveCmd, credentialsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
