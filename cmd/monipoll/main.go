package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "monipoll",
		Short: "Pedestrian exposure simulation over a route network",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		setupLogging(verbose)
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var realtime bool

	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Run a simulation headless until its clock stops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd.Context(), args[0], realtime)
		},
	}

	cmd.Flags().BoolVar(&realtime, "realtime", false, "pace ticks with the configured intervals")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Serve snapshots and controls over HTTP and websocket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	return cmd
}
