package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by all commands.
type GlobalFlags struct {
	ConfigPath string
}

// ClientFlags holds flags for commands that talk to a running daemon.
type ClientFlags struct {
	APIUrl     string
	APITimeout time.Duration
}

// buildRoot creates the root command and its subcommands.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	clientFlags := &ClientFlags{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createServeCommand(globalFlags),
		createStatusCommand(clientFlags),
		createStartCommand(clientFlags),
		createStopCommand(clientFlags),
		createExitCommand(clientFlags),
		createShutdownCommand(clientFlags),
	)
	return root
}

func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "corebridge",
		Short: "Lifecycle and status bridge for an embedded node",
		Long: `Corebridge keeps an embedded node alive under a host-controlled process
lifetime: it registers a background service, holds a wake guard, mirrors the
node's sync status to a persistent notification, routes start/stop actions,
and bounds shutdown with a hard deadline.

Examples:
  corebridge serve --config=corebridge.toml   # Start the daemon
  corebridge status                           # Query node status
  corebridge start                            # Ask the node to start
  corebridge exit                             # Stop the node, then exit the daemon`,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	return root
}

func addClientFlags(cmd *cobra.Command, flags *ClientFlags) {
	cmd.Flags().StringVar(&flags.APIUrl, "api-url", "", "daemon URL (default http://127.0.0.1:8310/api)")
	cmd.Flags().DurationVar(&flags.APITimeout, "api-timeout", 10*time.Second, "request timeout")
}

func createStatusCommand(flags *ClientFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the node's current status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(flags)
		},
	}
	addClientFlags(cmd, flags)
	return cmd
}

func createStartCommand(flags *ClientFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Forward a start signal to the node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignal(flags, "start")
		},
	}
	addClientFlags(cmd, flags)
	return cmd
}

func createStopCommand(flags *ClientFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Forward a stop signal to the node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignal(flags, "stop")
		},
	}
	addClientFlags(cmd, flags)
	return cmd
}

func createExitCommand(flags *ClientFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Stop the node and exit the daemon once the stop completes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignal(flags, "exit")
		},
	}
	addClientFlags(cmd, flags)
	return cmd
}

func createShutdownCommand(flags *ClientFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Begin daemon teardown immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignal(flags, "shutdown")
		},
	}
	addClientFlags(cmd, flags)
	return cmd
}
