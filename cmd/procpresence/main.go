package main

import (
	"fmt"
	"os"

	"github.com/loykin/procpresence/pkg/client"
	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by all commands
type GlobalFlags struct {
	ConfigPath string
}

// CheckFlags holds flags for the check command
type CheckFlags struct {
	JSON bool
}

// StatusFlags holds flags for the status command
type StatusFlags struct {
	APIURL string
	JSON   bool
}

func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	checkFlags := &CheckFlags{}
	statusFlags := &StatusFlags{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createCheckCommand(globalFlags, checkFlags),
		createStatusCommand(statusFlags),
	)
	return root
}

// createRootCommand creates the root command; running it starts the watcher.
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "procpresence",
		Short: "Toggle a remote switch while a process is running",
		Long: `procpresence polls the process table for a process with a given name and
required arguments, and calls a remote HTTP route whenever that process
appears or disappears.

Examples:
  procpresence                          # uses ./config.json
  procpresence --config=/etc/led.json
  procpresence check                    # sample once and print the result
  procpresence status --api-url=http://127.0.0.1:9090`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runWatch(ctx, flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "./config.json", "path to config file (json, toml or yaml)")
	return root
}

// createCheckCommand creates the check subcommand
func createCheckCommand(globalFlags *GlobalFlags, checkFlags *CheckFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sample the process table once and print the match result",
		Long: `Load the config, take a single process table sample and print whether the
watched process is present together with the routes that would be called.
The remote is not contacted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), globalFlags, checkFlags)
		},
	}
	cmd.Flags().BoolVar(&checkFlags.JSON, "json", false, "print the result as JSON")
	return cmd
}

// createStatusCommand creates the status subcommand
func createStatusCommand(statusFlags *StatusFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query the status server of a running watcher",
		Long: `Fetch /status from a running procpresence instance started with
server.listen set, and print the watcher state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout(), statusFlags)
		},
	}
	cmd.Flags().StringVar(&statusFlags.APIURL, "api-url", client.DefaultBaseURL, "base URL of the status server")
	cmd.Flags().BoolVar(&statusFlags.JSON, "json", false, "print the raw status as JSON")
	return cmd
}
